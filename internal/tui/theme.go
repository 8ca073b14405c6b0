package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorMuted   = colorOverlay1
)

var (
	appStyle   = lipgloss.NewStyle().Foreground(colorText).Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	labelStyle = lipgloss.NewStyle().Bold(true)
	focusStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(colorWarning).Italic(true)
	keyStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 1)

	stepActiveStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	stepDoneStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Padding(0, 1)
	stepTodoStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle).
			Foreground(colorText).
			Padding(0, 1)
	avatarStyle = lipgloss.NewStyle().
			Background(colorSurface1).
			Foreground(colorText).
			Bold(true).
			Padding(0, 1)
	badgeStyle = lipgloss.NewStyle().
			Background(colorError).
			Foreground(colorMantle).
			Bold(true).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(1, 3)
)

// key renders a key hint such as "[enter] Next".
func key(k, desc string) string {
	return keyStyle.Render("["+k+"]") + " " + mutedStyle.Render(desc)
}
