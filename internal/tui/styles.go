package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	helperStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	infoStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	badgeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	focusedPaneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	statusKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("236"))
	statusValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("236"))

	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("0"))
	invertedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("255"))
	headingLine    = lipgloss.NewStyle().Bold(true)
	codeLine       = lipgloss.NewStyle().Faint(true)
	quoteLine      = lipgloss.NewStyle().Italic(true)
	finishedMarker = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")).Background(lipgloss.Color("236"))
)
