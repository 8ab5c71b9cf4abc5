package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#00E5FF")
	muted  = lipgloss.Color("241")

	brandStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle   = lipgloss.NewStyle().Foreground(muted)
	headingStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	heroStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0B0F14")).Background(accent).Padding(0, 1)
	cardStyle     = lipgloss.NewStyle().Padding(0, 1)
	dimStyle      = lipgloss.NewStyle().Foreground(muted)
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(accent).Padding(1, 2)

	toastStyles = map[string]lipgloss.Style{
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
)
