package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleQuest = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	styleTodo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleMessage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleNotice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	styleDialogBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("228")).
			Padding(0, 1)

	styleSpeaker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleDialogText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("34")).
			Padding(1, 2)

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	styleEnding = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
