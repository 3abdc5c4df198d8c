package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/kokistudios/ujv/internal/journey"
)

// iconPattern accepts one symbol from the emoji blocks with an optional
// variation selector.
var iconPattern = regexp.MustCompile(`^[\x{1F000}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]\x{FE0F}?$`)

// IsIcon reports whether s is a single emoji grapheme.
func IsIcon(s string) bool {
	return uniseg.GraphemeClusterCount(s) == 1 && iconPattern.MatchString(s)
}

// IsReference reports whether s holds a capability reference marker.
func IsReference(s string) bool {
	_, ok := journey.FindReference(s)
	return ok
}

// numberedLine is a trimmed line with its 1-based position.
type numberedLine struct {
	text string
	num  int
}

// cursor walks the non-empty lines of a document in order. It never moves
// backwards.
type cursor struct {
	lines []numberedLine
	pos   int
}

func newCursor(raw []string, from int) *cursor {
	c := &cursor{}
	for i := from; i < len(raw); i++ {
		c.lines = append(c.lines, numberedLine{text: strings.TrimSpace(raw[i]), num: i + 1})
	}
	return c
}

// next returns the next non-empty line.
func (c *cursor) next() (numberedLine, bool) {
	for c.pos < len(c.lines) {
		l := c.lines[c.pos]
		c.pos++
		if l.text != "" {
			return l, true
		}
	}
	return numberedLine{}, false
}

// peek returns the next non-empty line without consuming it.
func (c *cursor) peek() (numberedLine, bool) {
	save := c.pos
	l, ok := c.next()
	c.pos = save
	return l, ok
}

// rest consumes and returns all remaining non-empty lines.
func (c *cursor) rest() []numberedLine {
	var out []numberedLine
	for {
		l, ok := c.next()
		if !ok {
			return out
		}
		out = append(out, l)
	}
}

// eventBlock collects the field lines of an event: non-empty lines up to the
// next heading, including the first capability reference and stopping after it.
func eventBlock(c *cursor) []string {
	var out []string
	for {
		l, ok := c.peek()
		if !ok || strings.HasPrefix(l.text, "#") {
			return out
		}
		c.next()
		out = append(out, l.text)
		if IsReference(l.text) {
			return out
		}
	}
}

// finding is a positional defect independent of file and line.
type finding struct {
	kind    Kind
	message string
}

// checkEventBlock applies the arity and field-type rules to the field lines
// of the event titled title. Accepted shapes:
//
//	description
//	description, icon
//	description, capability reference
//	description, icon, capability reference
func checkEventBlock(title string, lines []string) []finding {
	if len(lines) == 0 || IsReference(lines[0]) {
		return []finding{{KindMissingField, "Event '" + title + "' is missing a description."}}
	}

	switch len(lines) {
	case 1:
		return nil
	case 2:
		icon, ref := IsIcon(lines[1]), IsReference(lines[1])
		switch {
		case icon && ref:
			return []finding{{KindAmbiguousField, "Event '" + title + "' has a second line that matches both an icon and a capability reference."}}
		case !icon && !ref:
			return []finding{{KindInvalidField, "Event '" + title + "' has unexpected content after its description. Expected a single emoji icon or a capability reference."}}
		}
		return nil
	case 3:
		var out []finding
		if !IsIcon(lines[1]) {
			out = append(out, finding{KindInvalidField, iconMessage(title, lines[1])})
		}
		if !IsReference(lines[2]) {
			out = append(out, finding{KindInvalidField, "Event '" + title + "' has unexpected content where a capability reference was expected."})
		}
		return out
	default:
		return []finding{{KindArity, "Event '" + title + "' has too many non-empty lines. Expected at most description, icon and capability reference."}}
	}
}

func iconMessage(title, icon string) string {
	msg := "Event '" + title + "' has an invalid icon format. Expected a single emoji."
	if n := uniseg.GraphemeClusterCount(icon); n > 1 {
		msg += fmt.Sprintf(" Found %d characters.", n)
	}
	return msg
}
