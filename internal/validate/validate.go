// Package validate checks journey documents and capability fragments against
// the strict grammar. It reads raw markdown and does not use the permissive
// parser in package journey.
package validate

import (
	"fmt"
	"os"
	"strings"

	"github.com/kokistudios/ujv/internal/config"
	"github.com/kokistudios/ujv/internal/journey"
	"github.com/kokistudios/ujv/internal/ui"
)

type section int

const (
	sectionNone section = iota
	sectionTitle
	sectionPersona
	sectionEvents
)

// Validator checks a main document and the fragments it references.
type Validator struct {
	cfg config.Config
}

// New creates a Validator resolving fragments through cfg.
func New(cfg config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateMainDocument reads and validates the document at path. The error is
// non-nil only when the document itself cannot be read.
func (v *Validator) ValidateMainDocument(path string) ([]Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journey: %w", err)
	}
	return v.ValidateText(path, string(data)), nil
}

// ValidateText validates main document text. path names the document in
// diagnostics and locates its fragment directory.
func (v *Validator) ValidateText(path, text string) []Diagnostic {
	var diags []Diagnostic
	add := func(kind Kind, line int, msg string) {
		diags = append(diags, Diagnostic{Kind: kind, Path: path, Line: line, Message: msg})
	}

	lines := strings.Split(text, "\n")
	current := sectionNone
	events := 0

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		num := i + 1

		if isHeading(line) {
			if stem, ok := journey.FindReference(line); ok {
				add(KindInvalidField, num, fmt.Sprintf("Capability reference [capability:%s] inside a heading is ignored. Put it on its own line below the heading.", stem))
			}
		}

		switch {
		case strings.HasPrefix(line, journey.TitleMarker):
			if current != sectionNone {
				add(KindStructuralOrder, num, "'"+journey.TitleMarker+"' heading found out of place.")
			}
			current = sectionTitle
			continue
		case strings.HasPrefix(line, journey.PersonaMarker):
			if current != sectionNone && current != sectionTitle {
				add(KindStructuralOrder, num, "'"+journey.PersonaMarker+"' heading found out of order.")
			}
			current = sectionPersona
			continue
		case strings.HasPrefix(line, journey.EventsMarker):
			if current != sectionPersona {
				add(KindStructuralOrder, num, "'"+journey.EventsMarker+"' heading found out of order (expected after Persona).")
			}
			current = sectionEvents
			continue
		case journey.IsEventHeader(line):
			if current != sectionEvents {
				add(KindStructuralOrder, num, "Event heading (###) found outside 'Events' section.")
			}
			events++
			title := journey.HeaderText(line)
			for _, f := range checkEventBlock(title, eventBlock(newCursor(lines, i+1))) {
				add(f.kind, num, f.message)
			}
			continue
		case journey.IsCapabilityHeader(line):
			add(KindStructuralOrder, num, "Direct capability definition (####) found in main markdown. Use [capability:filename_stem] instead.")
			continue
		}

		stem, ok := journey.FindReference(line)
		if !ok {
			continue
		}
		fragment := v.cfg.FragmentPath(path, stem)
		if _, err := os.Stat(fragment); err != nil {
			if os.IsNotExist(err) {
				add(KindReferenceResolution, num, fmt.Sprintf("Referenced capability file '%s' not found.", fragment))
			} else {
				add(KindReferenceResolution, num, fmt.Sprintf("Referenced capability file '%s' cannot be read: %v", fragment, err))
			}
			continue
		}
		diags = append(diags, v.ValidateCapabilityFragment(fragment)...)
	}

	switch {
	case current == sectionNone:
		add(KindStructuralOrder, 0, "No main sections (Persona, Events) found.")
	case current == sectionPersona && events == 0:
		add(KindMissingField, 0, "'Events' section is missing or empty after 'Persona'.")
	}
	return diags
}

// ValidateCapabilityFragment validates a single fragment file.
func (v *Validator) ValidateCapabilityFragment(path string) []Diagnostic {
	ui.Logger.Debug("Validating capability file", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return []Diagnostic{{
			Kind:    KindReferenceResolution,
			Path:    path,
			Message: fmt.Sprintf("Capability file cannot be read: %v", err),
		}}
	}
	return ValidateFragmentText(path, string(data))
}

// ValidateFragmentText validates fragment text. The fragment must open with a
// level 4 heading followed by description and state lines; link and edge text
// lines are optional.
func ValidateFragmentText(path, text string) []Diagnostic {
	var diags []Diagnostic
	add := func(kind Kind, line int, msg string) {
		diags = append(diags, Diagnostic{Kind: kind, Path: path, Line: line, Message: msg})
	}

	if strings.TrimSpace(text) == "" {
		add(KindMissingField, 0, "File is empty.")
		return diags
	}

	lines := strings.Split(text, "\n")
	first := strings.TrimSpace(lines[0])
	switch {
	case !strings.HasPrefix(first, "####"):
		add(KindStructuralOrder, 1, "First line must be a level 4 heading (#### Capability Title).")
	case journey.HeaderText(first) == "":
		add(KindMissingField, 1, "Missing capability title.")
		return diags
	}

	c := newCursor(lines, 1)
	if _, ok := c.next(); !ok {
		add(KindMissingField, 0, "Missing capability description.")
		return diags
	}

	state, ok := c.next()
	if !ok {
		add(KindMissingField, 0, "Missing capability state.")
		return diags
	}
	if _, valid := journey.ParseState(state.text); !valid {
		add(KindInvalidEnum, state.num, fmt.Sprintf("Invalid capability state '%s'. Allowed states are: %s.", state.text, allowedStates()))
	}

	if extra := c.rest(); len(extra) > 2 {
		add(KindArity, extra[2].num, "Too many non-empty lines after state. Expected at most 2 additional lines (Link, Edge Text).")
	}
	return diags
}

func isHeading(line string) bool {
	return strings.HasPrefix(line, "#")
}

func allowedStates() string {
	names := make([]string, len(journey.States))
	for i, s := range journey.States {
		names[i] = string(s)
	}
	return strings.Join(names, "; ")
}
