// Package render writes a compiled journey into an HTML page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/kokistudios/ujv/internal/diagram"
	"github.com/kokistudios/ujv/internal/journey"
)

//go:embed templates/journey.html
var templateFS embed.FS

// pageData is what templates see. Templates may only rely on these two fields.
type pageData struct {
	Persona string
	Diagram string
}

// Renderer executes the page template.
type Renderer struct {
	tmpl *template.Template
}

// New loads the template at path, or the embedded default when path is empty.
func New(path string) (*Renderer, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = templateFS.ReadFile("templates/journey.html")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	tmpl, err := template.New("journey").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for j and its diagram to w.
func (r *Renderer) Render(w io.Writer, j *journey.Journey, d diagram.Diagram) error {
	data := pageData{Persona: j.Persona, Diagram: d.String()}
	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// WriteFile renders the page to path, creating parent directories.
func (r *Renderer) WriteFile(path string, j *journey.Journey, d diagram.Diagram) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, j, d); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}
