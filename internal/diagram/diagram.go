// Package diagram compiles a journey into mermaid flowchart statements.
package diagram

import (
	"fmt"
	"strings"

	"github.com/kokistudios/ujv/internal/journey"
)

// Kind classifies a diagram statement.
type Kind int

const (
	KindHeader Kind = iota
	KindNode
	KindEdge
	KindStyle
	KindClick
	KindClassDef
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	case KindStyle:
		return "style"
	case KindClick:
		return "click"
	case KindClassDef:
		return "classdef"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Statement is one line of flowchart output.
type Statement struct {
	Kind Kind
	Text string
}

// Diagram is an ordered statement list.
type Diagram []Statement

// String joins the statements into flowchart source.
func (d Diagram) String() string {
	lines := make([]string, len(d))
	for i, s := range d {
		lines[i] = s.Text
	}
	return strings.Join(lines, "\n")
}

// Count returns the number of statements of kind k.
func (d Diagram) Count(k Kind) int {
	n := 0
	for _, s := range d {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// Palette holds the colours applied to a capability node.
type Palette struct {
	Fill   string
	Stroke string
	Color  string
}

// StatePalettes maps each capability state to its node colours.
var StatePalettes = map[journey.State]Palette{
	journey.StateNotStarted:       {Fill: "#CF6679", Stroke: "#333", Color: "#000000"},
	journey.StateInDevelopment:    {Fill: "#FFD54F", Stroke: "#333", Color: "#000000"},
	journey.StateReleaseCandidate: {Fill: "#81C784", Stroke: "#333", Color: "#000000"},
	journey.StateInProduction:     {Fill: "#64B5F6", Stroke: "#333", Color: "#000000"},
}

const eventClass = "event_card"

// EventID returns the node ID of the event at index i.
func EventID(i int) string {
	return fmt.Sprintf("E%d", i)
}

// CapabilityID returns the node ID of capability c of event e.
func CapabilityID(e, c int) string {
	return fmt.Sprintf("E%d_C%d", e, c)
}

// Compile builds the flowchart for j. IDs derive from positions only, so
// output is identical across runs and duplicate titles never collide.
func Compile(j *journey.Journey) Diagram {
	var (
		eventNodes, chainEdges []Statement
		capNodes, capEdges     []Statement
		styles, clicks         []Statement
	)

	for ei, ev := range j.Events {
		eid := EventID(ei)
		eventNodes = append(eventNodes, Statement{KindNode, fmt.Sprintf(`%s(["%s"]):::%s`, eid, eventLabel(ev), eventClass)})
		if ei > 0 {
			chainEdges = append(chainEdges, Statement{KindEdge, fmt.Sprintf("%s --> %s", EventID(ei-1), eid)})
		}

		for ci, cp := range ev.Capabilities {
			cid := CapabilityID(ei, ci)
			capNodes = append(capNodes, Statement{KindNode, fmt.Sprintf(`%s(["%s"])`, cid, capabilityLabel(cp))})

			if cp.EdgeText != "" {
				capEdges = append(capEdges, Statement{KindEdge, fmt.Sprintf("%s -->|%s| %s", eid, EscapeEdge(cp.EdgeText), cid)})
			} else {
				capEdges = append(capEdges, Statement{KindEdge, fmt.Sprintf("%s --> %s", eid, cid)})
			}

			if p, ok := StatePalettes[cp.State]; ok {
				styles = append(styles, Statement{KindStyle, fmt.Sprintf(
					"style %s fill:%s,stroke:%s,color:%s,stroke-width:2px,rx:8px,ry:8px",
					cid, p.Fill, p.Stroke, p.Color)})
			}
			if cp.Link != "" {
				clicks = append(clicks, Statement{KindClick, fmt.Sprintf(`click %s "%s" _blank`, cid, escapeHref(cp.Link))})
			}
		}
	}

	d := Diagram{{KindHeader, "flowchart TD"}}
	d = append(d, eventNodes...)
	d = append(d, chainEdges...)
	d = append(d, capNodes...)
	d = append(d, capEdges...)
	d = append(d, styles...)
	d = append(d, clicks...)
	d = append(d, Statement{KindClassDef, "classDef " + eventClass + " fill:#2D2D2D,stroke:#444,stroke-width:2px,rx:8px,ry:8px;"})
	return d
}

func eventLabel(ev journey.Event) string {
	label := Escape(ev.Title) + "<br>" + Escape(ev.Description)
	if ev.Icon != "" {
		label = Escape(ev.Icon) + " " + label
	}
	return label
}

func capabilityLabel(cp journey.Capability) string {
	label := Escape(cp.Title) + "<br>" + Escape(cp.Description)
	if cp.Link != "" {
		label += "<br>🔗 code"
	}
	return label
}
