// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Level styles
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Problem components
	FilePath lipgloss.Style
	Location lipgloss.Style
	RuleID   lipgloss.Style
	Message  lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates styles for standard output with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	return NewStylesFor(os.Stdout, colorEnabled)
}

// NewStylesFor creates styles rendering for w. When color is enabled the
// ANSI profile is forced, so redirected output keeps its colors.
func NewStylesFor(w io.Writer, colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	return newColorStyles(r)
}

// newColorStyles creates styles with the 16 basic ANSI colors.
func newColorStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")),

		FilePath: r.NewStyle().Underline(true),
		Location: r.NewStyle().Faint(true),
		RuleID:   r.NewStyle().Faint(true),
		Message:  r.NewStyle(),

		SummaryTitle: r.NewStyle().Bold(true),
		Success:      r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Failure:      r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),

		Dim:  r.NewStyle().Faint(true),
		Bold: r.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:        plain,
		Warning:      plain,
		FilePath:     plain,
		Location:     plain,
		RuleID:       plain,
		Message:      plain,
		SummaryTitle: plain,
		Success:      plain,
		Failure:      plain,
		Dim:          plain,
		Bold:         plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return IsTerminal(writer)
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
