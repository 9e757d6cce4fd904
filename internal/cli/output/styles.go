package output

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles used by text output. They degrade to plain
// text when the renderer's writer is not a color terminal.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	BlockID lipgloss.Style

	StatusRunning   lipgloss.Style
	StatusCompleted lipgloss.Style
	StatusFailed    lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		Header2: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Info:    r.NewStyle().Foreground(lipgloss.Color("6")),
		BlockID: r.NewStyle().Foreground(lipgloss.Color("13")),

		StatusRunning:   r.NewStyle().Foreground(lipgloss.Color("11")).Italic(true),
		StatusCompleted: r.NewStyle().Foreground(lipgloss.Color("10")),
		StatusFailed:    r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Status returns the style for a run status string.
func (s *Styles) Status(status string) lipgloss.Style {
	switch status {
	case "running":
		return s.StatusRunning
	case "completed":
		return s.StatusCompleted
	case "failed", "cancelled":
		return s.StatusFailed
	default:
		return s.Muted
	}
}
