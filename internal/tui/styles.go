package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#16A34A")
	colorError   = lipgloss.Color("#DC2626")
	colorInfo    = lipgloss.Color("#2563EB")
)

type Styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Badge     lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
	Price     lipgloss.Style
	Total     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Help      lipgloss.Style
	Box       lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorPrimary),
		Badge:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorPrimary).Padding(0, 1),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
		Price:     lipgloss.NewStyle().Foreground(colorSuccess),
		Total:     lipgloss.NewStyle().Bold(true),
		Success:   lipgloss.NewStyle().Foreground(colorSuccess),
		Error:     lipgloss.NewStyle().Foreground(colorError),
		Info:      lipgloss.NewStyle().Foreground(colorInfo),
		Help:      lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1),
	}
}
