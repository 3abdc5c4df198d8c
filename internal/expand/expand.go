// Package expand inlines capability fragment files into a journey document.
package expand

import (
	"fmt"
	"os"
	"strings"

	"github.com/kokistudios/ujv/internal/config"
	"github.com/kokistudios/ujv/internal/journey"
	"github.com/kokistudios/ujv/internal/ui"
)

// Expander replaces capability reference lines with the referenced fragment.
type Expander struct {
	cfg config.Config
}

// New creates an Expander resolving fragments through cfg.
func New(cfg config.Config) *Expander {
	return &Expander{cfg: cfg}
}

// Expand returns text with every line holding a capability reference replaced
// by the content of the fragment file, or by an inline error marker when the
// file cannot be read. Heading lines are never replaced, even when they carry
// a reference. Fragment content is not scanned again, so nested references
// stay as written.
//
// docPath locates the fragment directory; text is usually that file's content.
func (x *Expander) Expand(docPath, text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			out = append(out, line)
			continue
		}
		stem, ok := journey.FindReference(line)
		if !ok {
			out = append(out, line)
			continue
		}
		out = append(out, x.fragment(docPath, stem))
	}
	return strings.Join(out, "\n")
}

// ExpandFile reads the document at path and expands it.
func (x *Expander) ExpandFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read journey: %w", err)
	}
	return x.Expand(path, string(data)), nil
}

func (x *Expander) fragment(docPath, stem string) string {
	path := x.cfg.FragmentPath(docPath, stem)
	data, err := os.ReadFile(path)
	if err != nil {
		ui.Logger.Debug("Capability reference unresolved", "stem", stem, "path", path)
		if os.IsNotExist(err) {
			return fmt.Sprintf("[ERROR: Capability file %s not found]", path)
		}
		return fmt.Sprintf("[ERROR: Capability file %s unreadable: %v]", path, err)
	}
	ui.Logger.Debug("Capability reference expanded", "stem", stem, "path", path)
	return string(data)
}
