package diagram

import "strings"

// labelEscaper replaces characters that flowchart syntax would read as
// delimiters with mermaid entity codes.
var labelEscaper = strings.NewReplacer(
	`"`, "#quot;",
	`'`, "#39;",
	`[`, "#91;",
	`]`, "#93;",
)

// Escape neutralizes double quotes, single quotes and square brackets in
// label text.
func Escape(s string) string {
	return labelEscaper.Replace(s)
}

// EscapeEdge escapes edge label text, which is additionally delimited by
// pipes.
func EscapeEdge(s string) string {
	return strings.ReplaceAll(Escape(s), "|", "#124;")
}

func escapeHref(s string) string {
	return strings.ReplaceAll(s, `"`, "%22")
}
