package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9D8CFF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#0277BD", Dark: "#4FC3F7"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Namespace and Declaration highlight model identifiers.
	Namespace   lipgloss.Style
	Declaration lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusRunning lipgloss.Style
	StatusSkipped lipgloss.Style
}

// NewStyles builds the style set for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(colorPrimary),
		Header2: r.NewStyle().Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(colorMuted),

		Success: r.NewStyle().Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Foreground(colorError),
		Info:    r.NewStyle().Foreground(colorInfo),

		Namespace:   r.NewStyle().Foreground(colorInfo),
		Declaration: r.NewStyle().Bold(true),

		StatusSuccess: r.NewStyle().Foreground(colorSuccess).SetString("✓"),
		StatusFailed:  r.NewStyle().Foreground(colorError).SetString("✗"),
		StatusRunning: r.NewStyle().Foreground(colorWarning).SetString("●"),
		StatusSkipped: r.NewStyle().Foreground(colorMuted).SetString("-"),
	}
}

// StatusIcon returns the rendered icon for a status name.
func (s *Styles) StatusIcon(status string) string {
	switch status {
	case "success", "passed":
		return s.StatusSuccess.String()
	case "failed", "error":
		return s.StatusFailed.String()
	case "running":
		return s.StatusRunning.String()
	default:
		return s.StatusSkipped.String()
	}
}
