package controller

import (
	"github.com/charmbracelet/lipgloss"

	m "testtree.dev/pkg/testtree/internal/model"
)

// Theme colors used throughout the TUI.
const (
	ColorAccent    = "86"
	ColorHighlight = "205"
	ColorDanger    = "196"
	ColorSuccess   = "42"
	ColorActive    = "214"
	ColorMuted     = "241"
	ColorText      = "252"
)

// Styles contains the style definitions used by the TUI.
var Styles = struct {
	Title    lipgloss.Style
	Cursor   lipgloss.Style
	Normal   lipgloss.Style
	Suite    lipgloss.Style
	Muted    lipgloss.Style
	Hint     lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Passed   lipgloss.Style
	Failed   lipgloss.Style
	Active   lipgloss.Style
	Selected lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Cursor: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Suite: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorText)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Error: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Passed: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSuccess)),
	Failed: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Active: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorActive)),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
}

func iconStyle(icon m.IconKind) lipgloss.Style {
	switch icon {
	case m.IconPassed, m.IconPassedAutorun:
		return Styles.Passed
	case m.IconFailed, m.IconFailedAutorun, m.IconRunningFailed, m.IconError:
		return Styles.Failed
	case m.IconRunning, m.IconScheduled:
		return Styles.Active
	case m.IconSelected:
		return Styles.Selected
	case m.IconPending, m.IconPendingAutorun, m.IconSkipped,
		m.IconPassedFaint, m.IconPassedFaintAutorun, m.IconFailedFaint, m.IconFailedFaintAutorun:
		return Styles.Muted
	}

	return Styles.Normal
}
