package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kokistudios/ujv/internal/config"
)

const validDoc = `# User Journey

## Persona

First-time buyer

## Events

### Browse catalogue
Customer looks for a product
🛒
[capability:search]
[capability:filters]

### Checkout
Customer pays for the basket
[capability:payments]

### Confirmation
Customer receives an email
`

// setup writes the main document and fragments into a temp dir and returns
// the document path.
func setup(t *testing.T, doc string, fragments map[string]string) string {
	t.Helper()
	tmp := t.TempDir()
	capDir := filepath.Join(tmp, "capabilities")
	if err := os.MkdirAll(capDir, 0755); err != nil {
		t.Fatal(err)
	}
	for stem, content := range fragments {
		if err := os.WriteFile(filepath.Join(capDir, stem+".md"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(tmp, "journey.md")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func validFragments() map[string]string {
	return map[string]string{
		"search":   "#### Search\nFull text search\nIn production\nhttps://example.com/search\nsearches\n",
		"filters":  "#### Filters\n\nFaceted filters\n\nIn development\n",
		"payments": "#### Payments\nCard payments\nIn testing, release candidate\n",
	}
}

func hasKind(diags []Diagnostic, kind Kind) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestValidateMainDocument_Valid(t *testing.T) {
	path := setup(t, validDoc, validFragments())
	diags, err := New(config.Default()).ValidateMainDocument(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got:\n%s", strings.Join(Strings(diags), "\n"))
	}
}

func TestValidateMainDocument_Unreadable(t *testing.T) {
	_, err := New(config.Default()).ValidateMainDocument(filepath.Join(t.TempDir(), "nope.md"))
	if err == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestValidate_EventsBeforePersona(t *testing.T) {
	doc := "# User Journey\n## Events\n### A\ndesc\n## Persona\nBob\n"
	diags := New(config.Default()).ValidateText("journey.md", doc)
	if !hasKind(diags, KindStructuralOrder) {
		t.Fatalf("expected structural-order diagnostic, got %v", Strings(diags))
	}
	if diags[0].Line != 2 {
		t.Errorf("first diagnostic line = %d, want 2", diags[0].Line)
	}
}

func TestValidate_TitleOutOfPlace(t *testing.T) {
	doc := "## Persona\nBob\n# User Journey\n## Events\n### A\ndesc\n"
	diags := New(config.Default()).ValidateText("journey.md", doc)
	if len(diags) == 0 || !strings.Contains(diags[0].Message, "out of place") {
		t.Errorf("expected out of place diagnostic, got %v", Strings(diags))
	}
}

func TestValidate_EventOutsideEventsSection(t *testing.T) {
	doc := "## Persona\nBob\n### A\ndesc\n"
	diags := New(config.Default()).ValidateText("journey.md", doc)
	if !hasKind(diags, KindStructuralOrder) {
		t.Errorf("expected structural-order diagnostic, got %v", Strings(diags))
	}
}

func TestValidate_DirectCapabilityHeading(t *testing.T) {
	doc := "## Persona\nBob\n## Events\n### A\ndesc\n#### Inline\nx\nIn production\n"
	diags := New(config.Default()).ValidateText("journey.md", doc)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "Direct capability definition") && d.Line == 6 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected direct capability diagnostic on line 6, got %v", Strings(diags))
	}
}

func TestValidate_MissingReference(t *testing.T) {
	doc := "## Persona\nBob\n## Events\n### A\ndesc\n[capability:missing_one]\n"
	path := setup(t, doc, nil)
	diags, err := New(config.Default()).ValidateMainDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", Strings(diags))
	}
	d := diags[0]
	if d.Kind != KindReferenceResolution {
		t.Errorf("kind = %s", d.Kind)
	}
	want := filepath.Join(filepath.Dir(path), "capabilities", "missing_one.md")
	if !strings.Contains(d.String(), want) {
		t.Errorf("diagnostic %q should name %q", d.String(), want)
	}
	if d.Line != 6 {
		t.Errorf("line = %d, want 6", d.Line)
	}
}

func TestValidate_FragmentDiagnosticsPropagate(t *testing.T) {
	doc := "## Persona\nBob\n## Events\n### A\ndesc\n[capability:broken]\n### B\nother\n[capability:also_broken]\n"
	path := setup(t, doc, map[string]string{
		"broken":      "#### Broken\nno state here\n",
		"also_broken": "#### Also\ndesc\nshipped\n",
	})
	diags, _ := New(config.Default()).ValidateMainDocument(path)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", Strings(diags))
	}
	if diags[0].Kind != KindMissingField || !strings.HasSuffix(diags[0].Path, "broken.md") {
		t.Errorf("first diagnostic = %+v", diags[0])
	}
	if diags[1].Kind != KindInvalidEnum {
		t.Errorf("second diagnostic = %+v", diags[1])
	}
}

func TestValidate_AccumulatesAcrossEvents(t *testing.T) {
	doc := "## Persona\nBob\n## Events\n### A\n### B\ndesc\nnot an icon\n### C\na\nb\nc\nd\n"
	diags := New(config.Default()).ValidateText("journey.md", doc)
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", Strings(diags))
	}
	want := []Kind{KindMissingField, KindInvalidField, KindArity}
	for i, k := range want {
		if diags[i].Kind != k {
			t.Errorf("diagnostic %d kind = %s, want %s", i, diags[i].Kind, k)
		}
	}
}

func TestValidate_NoSections(t *testing.T) {
	diags := New(config.Default()).ValidateText("journey.md", "just some text\n")
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "No main sections") {
		t.Errorf("got %v", Strings(diags))
	}
}

func TestValidate_PersonaWithoutEvents(t *testing.T) {
	diags := New(config.Default()).ValidateText("journey.md", "## Persona\nBob\n")
	if len(diags) != 1 || diags[0].Kind != KindMissingField {
		t.Errorf("got %v", Strings(diags))
	}
}

func TestValidateFragmentText(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		kinds []Kind
	}{
		{"valid minimal", "#### T\ndesc\nNot started\n", nil},
		{"valid full", "#### T\ndesc\nIn production\nhttps://x\nedge\n", nil},
		{"empty", "", []Kind{KindMissingField}},
		{"whitespace only", "\n  \n", []Kind{KindMissingField}},
		{"no heading", "### T\ndesc\nIn production\n", []Kind{KindStructuralOrder}},
		{"empty title", "####\ndesc\nIn production\n", []Kind{KindMissingField}},
		{"missing description", "#### T\n\n\n", []Kind{KindMissingField}},
		{"missing state", "#### T\ndesc\n", []Kind{KindMissingField}},
		{"lowercase state", "#### T\ndesc\nin production\n", []Kind{KindInvalidEnum}},
		{"too many lines", "#### T\ndesc\nIn production\nlink\nedge\nextra\n", []Kind{KindArity}},
		{"bad state and too many", "#### T\ndesc\nDone\na\nb\nc\n", []Kind{KindInvalidEnum, KindArity}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateFragmentText("cap.md", tc.text)
			if len(got) != len(tc.kinds) {
				t.Fatalf("got %v, want kinds %v", Strings(got), tc.kinds)
			}
			for i, d := range got {
				if d.Kind != tc.kinds[i] {
					t.Errorf("diagnostic %d kind = %s, want %s", i, d.Kind, tc.kinds[i])
				}
			}
		})
	}
}

func TestValidateFragmentText_MissingStateMessage(t *testing.T) {
	got := ValidateFragmentText("cap.md", "#### Search\nFull text search\n")
	if len(got) != 1 || got[0].String() != "Error in cap.md: Missing capability state." {
		t.Errorf("got %v", Strings(got))
	}
}

func TestValidateCapabilityFragment_Unreadable(t *testing.T) {
	got := New(config.Default()).ValidateCapabilityFragment(filepath.Join(t.TempDir(), "gone.md"))
	if len(got) != 1 || got[0].Kind != KindReferenceResolution {
		t.Errorf("got %v", Strings(got))
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Path: "j.md", Line: 3, Message: "boom"}
	if d.String() != "Error in j.md (line 3): boom" {
		t.Errorf("String = %q", d.String())
	}
	d.Line = 0
	if d.String() != "Error in j.md: boom" {
		t.Errorf("String = %q", d.String())
	}
}

func TestValidate_ReferenceInHeading(t *testing.T) {
	doc := "## Persona\nBob\n## Events\n### Checkout [capability:pay]\nCustomer pays\n### Ghost [capability:nope]\nnothing\n"
	path := setup(t, doc, map[string]string{"pay": "#### Pay\nPayments\nNot started\n"})
	diags, err := New(config.Default()).ValidateMainDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := map[int]bool{}
	for _, d := range diags {
		if d.Kind == KindInvalidField && strings.Contains(d.Message, "inside a heading") {
			lines[d.Line] = true
		}
	}
	if !lines[4] || !lines[6] {
		t.Errorf("expected heading reference diagnostics on lines 4 and 6, got %v", Strings(diags))
	}
	if hasKind(diags, KindReferenceResolution) {
		t.Errorf("heading references must not be resolved, got %v", Strings(diags))
	}
}

func TestValidate_UnreadableReferenceIsNotMissing(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	doc := "## Persona\nBob\n## Events\n### A\ndesc\n[capability:locked]\n"
	path := setup(t, doc, nil)
	locked := filepath.Join(filepath.Dir(path), "capabilities", "sub")
	if err := os.MkdirAll(locked, 0755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.CapabilitiesDir = filepath.Join("capabilities", "sub")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(locked, 0755)

	diags := New(cfg).ValidateText(path, doc)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", Strings(diags))
	}
	if strings.Contains(diags[0].Message, "not found") || !strings.Contains(diags[0].Message, "cannot be read") {
		t.Errorf("message = %q", diags[0].Message)
	}
}
