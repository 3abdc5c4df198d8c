package journey

import (
	"strings"
)

type parseMode int

const (
	modeNone parseMode = iota
	modePersona
	modeEvent
	modeCapability
)

// parser holds the state of a single Parse call.
type parser struct {
	journey Journey
	mode    parseMode

	event      *Event
	eventSlot  int
	capability *Capability
	capSlot    int
}

// Parse builds a Journey from expanded document text.
//
// Parsing is permissive: missing fields are left empty and surplus lines in a
// field block are dropped. Required-field checks belong to the validate
// package.
func Parse(text string) *Journey {
	p := &parser{}
	for _, raw := range strings.Split(text, "\n") {
		p.line(strings.TrimSpace(raw))
	}
	p.flushEvent()
	if p.journey.Events == nil {
		p.journey.Events = []Event{}
	}
	return &p.journey
}

func (p *parser) line(line string) {
	switch {
	case strings.HasPrefix(line, PersonaMarker):
		p.mode = modePersona
	case strings.HasPrefix(line, EventsMarker):
		p.mode = modeNone
	case IsEventHeader(line):
		p.flushEvent()
		p.event = &Event{Title: HeaderText(line)}
		p.eventSlot = 0
		p.mode = modeEvent
	case IsCapabilityHeader(line):
		p.flushCapability()
		p.capability = &Capability{Title: HeaderText(line)}
		p.capSlot = 0
		p.mode = modeCapability
	case line == "":
	default:
		p.data(line)
	}
}

// data fills the next positional slot for the current mode.
func (p *parser) data(line string) {
	switch p.mode {
	case modePersona:
		if p.journey.Persona == "" {
			p.journey.Persona = line
		}
		p.mode = modeNone
	case modeEvent:
		switch p.eventSlot {
		case 0:
			p.event.Description = line
		case 1:
			p.event.Icon = line
		default:
			return
		}
		p.eventSlot++
	case modeCapability:
		switch p.capSlot {
		case 0:
			p.capability.Description = line
		case 1:
			p.capability.State = State(line)
		case 2:
			p.capability.Link = line
		case 3:
			p.capability.EdgeText = line
		default:
			return
		}
		p.capSlot++
	}
}

// flushCapability attaches the open capability to the open event. A
// capability with no enclosing event is dropped.
func (p *parser) flushCapability() {
	if p.capability == nil {
		return
	}
	if p.event != nil {
		p.event.Capabilities = append(p.event.Capabilities, *p.capability)
	}
	p.capability = nil
}

func (p *parser) flushEvent() {
	p.flushCapability()
	if p.event == nil {
		return
	}
	p.journey.Events = append(p.journey.Events, *p.event)
	p.event = nil
}
