package core

import "github.com/charmbracelet/lipgloss"

var (
	ColorText     lipgloss.Color = "#cdd6f4"
	ColorMuted    lipgloss.Color = "#a6adc8"
	ColorBorder   lipgloss.Color = "#585b70"
	ColorAccent   lipgloss.Color = "#89b4fa"
	ColorSuccess  lipgloss.Color = "#a6e3a1"
	ColorError    lipgloss.Color = "#f38ba8"
	ColorWarning  lipgloss.Color = "#f9e2af"
	ColorTabOff   lipgloss.Color = "#7f849c"
	ColorSurface0 lipgloss.Color = "#313244"
	ColorMantle   lipgloss.Color = "#181825"
)

var (
	AppStyle = lipgloss.NewStyle().Foreground(ColorText)

	TitleStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	OKStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarnStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	BadgeStyle = lipgloss.NewStyle().Foreground(ColorMantle).Background(ColorAccent).Padding(0, 1)

	headerBarStyle = lipgloss.NewStyle().Background(ColorMantle).Foreground(ColorText)
	headerAppStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Background(ColorMantle)
	tabSepStyle    = lipgloss.NewStyle().Foreground(ColorBorder).Background(ColorMantle)
	activeTabStyle = lipgloss.NewStyle().
			Background(ColorSurface0).
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(ColorMantle).
				Foreground(ColorTabOff).
				Padding(0, 1)

	statusBarStyle    = lipgloss.NewStyle().Foreground(ColorSuccess).Background(ColorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().Foreground(ColorError).Background(ColorSurface0)
	footerStyle       = lipgloss.NewStyle().Background(ColorMantle)
)
