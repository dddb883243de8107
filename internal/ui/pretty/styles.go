// Package pretty paints render rows and run summaries for the terminal with
// lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/yaklabco/mdpreview/pkg/config"
)

// defaultTermWidth is used when the writer is not a terminal.
const defaultTermWidth = 100

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	// Block styles
	Heading   lipgloss.Style
	Heading1  lipgloss.Style
	Quote     lipgloss.Style
	Marker    lipgloss.Style
	Fence     lipgloss.Style
	CodeLine  lipgloss.Style
	Rule      lipgloss.Style
	TableHead lipgloss.Style
	TableRule lipgloss.Style

	// Inline styles
	Strong   lipgloss.Style
	Emphasis lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style
	Image    lipgloss.Style

	// Report styles
	FilePath     lipgloss.Style
	Location     lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style
	SummaryTitle lipgloss.Style
	Gutter       lipgloss.Style
	Divider      lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates Styles. Without color every style is plain.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	return &Styles{
		Heading:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Heading1:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true).Underline(true),
		Quote:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Italic(true),
		Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Fence:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		CodeLine:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Rule:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		TableHead: lipgloss.NewStyle().Bold(true),
		TableRule: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Strong:   lipgloss.NewStyle().Bold(true),
		Emphasis: lipgloss.NewStyle().Italic(true),
		Code:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Link:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		Image:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		FilePath:     lipgloss.NewStyle().Bold(true),
		Location:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		SummaryTitle: lipgloss.NewStyle().Bold(true),
		Gutter:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Divider:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Heading:      plain,
		Heading1:     plain,
		Quote:        plain,
		Marker:       plain,
		Fence:        plain,
		CodeLine:     plain,
		Rule:         plain,
		TableHead:    plain,
		TableRule:    plain,
		Strong:       plain,
		Emphasis:     plain,
		Code:         plain,
		Link:         plain,
		Image:        plain,
		FilePath:     plain,
		Location:     plain,
		Error:        plain,
		Success:      plain,
		Failure:      plain,
		SummaryTitle: plain,
		Gutter:       plain,
		Divider:      plain,
		Dim:          plain,
		Bold:         plain,
	}
}

// IsColorEnabled decides whether to color output for writer.
// In auto mode color needs a terminal and an unset NO_COLOR.
func IsColorEnabled(mode config.ColorMode, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TerminalWidth returns width when positive, else the width of the terminal
// behind writer, else a default.
func TerminalWidth(width int, writer io.Writer) int {
	if width > 0 {
		return width
	}
	if f, ok := writer.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultTermWidth
}
