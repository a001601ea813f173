package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary     = lipgloss.Color("#2196F3")
	Muted       = lipgloss.Color("#8a8f98")
	Success     = lipgloss.Color("#8BC34A")
	Destructive = lipgloss.Color("#e53935")
	Border      = lipgloss.Color("#2a3850")
)

// Styles holds the lipgloss styles used by the screen.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Hint    lipgloss.Style
	Empty   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Dialog  lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the default screen styles.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		Label:   lipgloss.NewStyle().Width(17).Foreground(Muted),
		Hint:    lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Empty:   lipgloss.NewStyle().Bold(true).MarginTop(1),
		Success: lipgloss.NewStyle().Foreground(Success),
		Error:   lipgloss.NewStyle().Foreground(Destructive),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1).
			MarginTop(1),
		Help: lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
	}
}
