// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#EEEEEE"}
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#696969"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#444444"}
	RunningColor       = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#73F59F"}
	StoppedColor       = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#BBBBBB"}
	DangerColor        = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF4A4A"}
	ButtonColor        = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#3A3A3A"}
)

// Styles
var (
	ElapsedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimaryColor)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextPrimaryColor).
			Background(ButtonColor).
			Padding(0, 2)

	CloseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DangerColor)

	HintStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Italic(true)
)

// StatusColor returns the accent color for the running state.
func StatusColor(running bool) lipgloss.TerminalColor {
	if running {
		return RunningColor
	}
	return StoppedColor
}
