package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kokistudios/ujv/internal/config"
	"github.com/kokistudios/ujv/internal/validate"
)

func writeJourney(t *testing.T, doc string, fragments map[string]string) string {
	t.Helper()
	tmp := t.TempDir()
	capDir := filepath.Join(tmp, "capabilities")
	os.MkdirAll(capDir, 0755)
	for stem, content := range fragments {
		os.WriteFile(filepath.Join(capDir, stem+".md"), []byte(content), 0644)
	}
	path := filepath.Join(tmp, "journey.md")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const doc = "# User Journey\n## Persona\nBuyer\n## Events\n### Browse\nLooks around\n🛒\n[capability:search]\n### Pay\nChecks out\n"

func TestHandleValidate(t *testing.T) {
	s := NewServer(config.Default(), "test")
	path := writeJourney(t, doc, map[string]string{"search": "#### Search\nFind things\nIn production\n"})

	_, out, err := s.handleValidate(context.Background(), nil, PathArgs{Path: path})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !out.Valid || out.Message != validate.SuccessMessage {
		t.Errorf("result = %+v", out)
	}

	bad := writeJourney(t, doc, nil)
	_, out, err = s.handleValidate(context.Background(), nil, PathArgs{Path: bad})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Valid || len(out.Diagnostics) != 1 || out.Diagnostics[0].Kind != validate.KindReferenceResolution {
		t.Errorf("result = %+v", out)
	}
}

func TestHandleValidate_RequiresPath(t *testing.T) {
	s := NewServer(config.Default(), "test")
	if _, _, err := s.handleValidate(context.Background(), nil, PathArgs{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestHandleParse(t *testing.T) {
	s := NewServer(config.Default(), "test")
	path := writeJourney(t, doc, map[string]string{"search": "#### Search\nFind things\nIn production\n"})

	_, j, err := s.handleParse(context.Background(), nil, PathArgs{Path: path})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if j.Persona != "Buyer" || len(j.Events) != 2 {
		t.Fatalf("journey = %+v", j)
	}
	if len(j.Events[0].Capabilities) != 1 || j.Events[0].Capabilities[0].Title != "Search" {
		t.Errorf("capabilities = %+v", j.Events[0].Capabilities)
	}
}

func TestHandleDiagram(t *testing.T) {
	s := NewServer(config.Default(), "test")
	path := writeJourney(t, doc, map[string]string{"search": "#### Search\nFind things\nIn production\n"})

	_, out, err := s.handleDiagram(context.Background(), nil, PathArgs{Path: path})
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	if out.Events != 2 || out.Capabilities != 1 {
		t.Errorf("counts = %+v", out)
	}
	if !strings.HasPrefix(out.Mermaid, "flowchart TD") || !strings.Contains(out.Mermaid, "E0 --> E0_C0") {
		t.Errorf("mermaid = %q", out.Mermaid)
	}
}

func TestHandleDiagram_MissingFile(t *testing.T) {
	s := NewServer(config.Default(), "test")
	if _, _, err := s.handleDiagram(context.Background(), nil, PathArgs{Path: filepath.Join(t.TempDir(), "x.md")}); err == nil {
		t.Error("expected error for missing document")
	}
}
