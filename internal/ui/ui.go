package ui

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Logger is the package-level structured logger. It writes to stderr before
// Init is called so library packages can log unconditionally.
var Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

// Styles, initialized in Init().
var (
	headerStyle  lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	boldStyle    lipgloss.Style
	promptStyle  lipgloss.Style
	accentStyle  lipgloss.Style
)

// Init sets up color detection, lipgloss styles, and the structured logger.
// Call this once at CLI startup.
func Init(noColorFlag, verbose bool) {
	noColor := noColorFlag || os.Getenv("NO_COLOR") != ""

	// Pre-set dark background to prevent termenv OSC query
	lipgloss.SetHasDarkBackground(true)

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	accentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))

	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verbose {
		Logger.SetLevel(log.DebugLevel)
	}
	if noColor {
		Logger.SetStyles(log.DefaultStyles())
	}
}

func Bold(s string) string   { return boldStyle.Render(s) }
func Dim(s string) string    { return dimStyle.Render(s) }
func Red(s string) string    { return errorStyle.Render(s) }
func Green(s string) string  { return successStyle.Render(s) }
func Yellow(s string) string { return warningStyle.Render(s) }

// Warning prints a styled warning message.
func Warning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("⚠"), msg)
}

// Error prints a styled error message.
func Error(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), msg)
}

// Info prints a styled informational message.
func Info(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", accentStyle.Render("▸"), msg)
}

// Success prints a green check with a message.
func Success(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", successStyle.Render("✓"), msg)
}

// Detail prints an indented key-value detail line.
func Detail(key, value string) {
	label := dimStyle.Render(fmt.Sprintf("  %s", key))
	fmt.Fprintf(os.Stderr, "%s %s\n", label, value)
}

// KeyValue prints a bold key with a value, for structured output blocks.
func KeyValue(key, value string) {
	fmt.Fprintf(os.Stderr, "  %s  %s\n", boldStyle.Render(key), value)
}

// SectionHeader prints a styled section divider with a label.
func SectionHeader(label string) {
	line := headerStyle.Render(fmt.Sprintf("── %s ──", label))
	fmt.Fprintf(os.Stderr, "\n%s\n\n", line)
}

// Table prints a formatted table with headers and rows.
func Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, boldStyle.Render(strings.Join(headers, "\t")))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// Problems prints a failure header followed by one bullet per message.
func Problems(header string, msgs []string) {
	fmt.Fprintf(os.Stderr, "\n%s\n", errorStyle.Render(header))
	for _, m := range msgs {
		fmt.Fprintf(os.Stderr, "  %s %s\n", errorStyle.Render("-"), m)
	}
}

// CommandBanner renders a small branded banner for a command.
func CommandBanner(command string, subtitle string) {
	brand := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Render("U · J · V")

	cmdLine := accentStyle.Render(fmt.Sprintf("─── %s ───", strings.ToUpper(command)))

	content := fmt.Sprintf("%s\n%s", brand, cmdLine)
	if subtitle != "" {
		content += "\n" + dimStyle.Render(subtitle)
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		PaddingLeft(1).
		PaddingRight(1).
		Render(content)

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, box)
	fmt.Fprintln(os.Stderr)
}

// confirmModel is a bubbletea model for y/n confirmation.
type confirmModel struct {
	prompt   string
	cursor   int // 0 = yes, 1 = no
	decided  bool
	accepted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.accepted = true
			m.decided = true
			return m, tea.Quit
		case "n", "N":
			m.accepted = false
			m.decided = true
			return m, tea.Quit
		case "left", "h":
			m.cursor = 0
		case "right", "l":
			m.cursor = 1
		case "enter", " ":
			m.accepted = m.cursor == 0
			m.decided = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.accepted = false
			m.decided = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	var yes, no string
	if m.cursor == 0 {
		yes = successStyle.Render("▸ Yes ")
		no = dimStyle.Render("  No  ")
	} else {
		yes = dimStyle.Render("  Yes ")
		no = errorStyle.Render("▸ No  ")
	}

	return fmt.Sprintf("%s\n\n  %s  %s\n\n%s",
		promptStyle.Render(m.prompt),
		yes, no,
		dimStyle.Render("  ←/→ to select • enter to confirm • y/n for quick select"))
}

// Confirm prompts the user with a yes/no question and returns the response.
func Confirm(prompt string) (bool, error) {
	m := confirmModel{prompt: prompt, cursor: 0}
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	fmt.Fprintln(os.Stderr)
	return result.(confirmModel).accepted, nil
}
