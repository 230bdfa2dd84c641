package main

import "github.com/charmbracelet/lipgloss"

// Grid geometry, in terminal columns.
const (
	cellW        = 11            // one step column
	labelVisualW = 7             // "q[n]" label plus the wire lead-in
	gateNameW    = 5             // gate label inside a box
	gateBoxW     = gateNameW + 2 // ┤label├
)

// Palette.
const (
	colorBlue   = lipgloss.Color("#7aa2f7")
	colorPurple = lipgloss.Color("#bb9af7")
	colorGreen  = lipgloss.Color("#9ece6a")
	colorOrange = lipgloss.Color("#ff9e64")
	colorYellow = lipgloss.Color("#e0af68")
	colorCyan   = lipgloss.Color("#7dcfff")
	colorTeal   = lipgloss.Color("#73daca")
	colorRed    = lipgloss.Color("#f7768e")
	colorMuted  = lipgloss.Color("#565f89")
	colorText   = lipgloss.Color("#c0caf5")
)

// Panels.
var (
	circuitStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(1)

	qasmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple).
			Padding(1)

	controlsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGreen).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
)

// Circuit grid.
var (
	cursorBoxStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	qubitLabelStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	gateStyle        = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	droppedGateStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(colorRed)
)

// Status bar and overlays.
var (
	fieldLabelStyle = lipgloss.NewStyle().Foreground(colorYellow)
	dimStyle        = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorRed)

	menuBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorOrange).
			Padding(0, 1)
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	menuNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
)
