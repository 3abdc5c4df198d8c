package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for the terminal, falling back to the raw text.
func RenderMarkdown(md string) {
	out, err := FormatMarkdown(md)
	if err != nil {
		fmt.Fprintln(os.Stdout, md)
		return
	}
	fmt.Fprint(os.Stdout, out)
}

// FormatMarkdown returns md styled for a terminal.
func FormatMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
