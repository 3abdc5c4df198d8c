package journey

import (
	"regexp"
	"strings"
)

// Line markers of the journey dialect. Lines are compared after trimming
// surrounding whitespace.
const (
	TitleMarker      = "# User Journey"
	PersonaMarker    = "## Persona"
	EventsMarker     = "## Events"
	EventPrefix      = "### "
	CapabilityPrefix = "#### "
)

// referencePattern matches an inline capability reference such as
// [capability:checkout_flow].
var referencePattern = regexp.MustCompile(`\[capability:([A-Za-z0-9_-]+)\]`)

// FindReference returns the fragment stem referenced on line, if any.
func FindReference(line string) (string, bool) {
	m := referencePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsEventHeader reports whether the trimmed line opens an event.
func IsEventHeader(line string) bool {
	return strings.HasPrefix(line, EventPrefix)
}

// IsCapabilityHeader reports whether the trimmed line opens a capability.
func IsCapabilityHeader(line string) bool {
	return strings.HasPrefix(line, CapabilityPrefix)
}

// HeaderText returns the text of a level 3 or level 4 heading line without
// its marker. Any further '#' belongs to the title.
func HeaderText(line string) string {
	for _, marker := range []string{"####", "###"} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	return strings.TrimSpace(line)
}
