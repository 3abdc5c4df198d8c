package journey

import (
	"fmt"
	"strings"
)

// Markdown returns a readable summary of j: persona, then each event with a
// table of its capabilities.
func (j *Journey) Markdown() string {
	var b strings.Builder
	b.WriteString("# User Journey\n\n")
	if j.Persona != "" {
		fmt.Fprintf(&b, "**Persona:** %s\n\n", j.Persona)
	}
	if len(j.Events) == 0 {
		b.WriteString("_No events._\n")
		return b.String()
	}
	for i, e := range j.Events {
		title := e.Title
		if e.Icon != "" {
			title = e.Icon + " " + title
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, title)
		if e.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", e.Description)
		}
		if len(e.Capabilities) == 0 {
			continue
		}
		b.WriteString("| Capability | State | Description |\n|---|---|---|\n")
		for _, c := range e.Capabilities {
			state := string(c.State)
			if state == "" {
				state = "—"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(c.Title), cell(state), cell(c.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// StateCounts tallies capabilities by state. Unrecognized states are counted
// under their literal text.
func (j *Journey) StateCounts() map[State]int {
	counts := make(map[State]int)
	for _, e := range j.Events {
		for _, c := range e.Capabilities {
			counts[c.State]++
		}
	}
	return counts
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
