package playerview

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorPrimary   = lipgloss.Color("#a78bfa")
	colorSecondary = lipgloss.Color("#f1a208")
	colorFgBase    = lipgloss.Color("#c0c0c0")
	colorFgMuted   = lipgloss.Color("#808080")
	colorFgSubtle  = lipgloss.Color("#585858")
	colorError     = lipgloss.Color("#ff5555")
	colorSuccess   = lipgloss.Color("#42b883")
)

var (
	baseStyle    = lipgloss.NewStyle().Foreground(colorFgBase)
	titleStyle   = baseStyle.Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorFgMuted)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorFgSubtle)
	accentStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorSecondary)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	captionStyle = lipgloss.NewStyle().
			Foreground(colorFgBase).
			Bold(true).
			Align(lipgloss.Center)
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFgSubtle).
			Padding(0, 1)
)
