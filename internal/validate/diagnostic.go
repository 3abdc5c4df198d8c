package validate

import "fmt"

// Kind classifies a diagnostic.
type Kind string

const (
	KindMissingField        Kind = "missing-field"
	KindInvalidEnum         Kind = "invalid-enum"
	KindStructuralOrder     Kind = "structural-order"
	KindArity               Kind = "arity"
	KindReferenceResolution Kind = "reference-resolution"
	KindAmbiguousField      Kind = "ambiguous-field"
	KindInvalidField        Kind = "invalid-field"
)

// Diagnostic is one defect found in a document or fragment.
type Diagnostic struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Path    string `json:"path" yaml:"path"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"` // 1-based; 0 when file-level
	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("Error in %s (line %d): %s", d.Path, d.Line, d.Message)
	}
	return fmt.Sprintf("Error in %s: %s", d.Path, d.Message)
}

// Strings renders diagnostics in order.
func Strings(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.String()
	}
	return out
}

// SuccessMessage is reported when a document has no diagnostics.
const SuccessMessage = "Validation SUCCESS: Markdown file structure and referenced capabilities are valid."
