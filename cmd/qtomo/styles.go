package main

import "github.com/charmbracelet/lipgloss"

// Tokyo Night palette.
const (
	colorBlue    = lipgloss.Color("#7aa2f7")
	colorPurple  = lipgloss.Color("#bb9af7")
	colorOrange  = lipgloss.Color("#ff9e64")
	colorCyan    = lipgloss.Color("#7dcfff")
	colorTeal    = lipgloss.Color("#73daca")
	colorGreen   = lipgloss.Color("#9ece6a")
	colorRed     = lipgloss.Color("#f7768e")
	colorComment = lipgloss.Color("#565f89")
	colorText    = lipgloss.Color("#c0caf5")
)

func panel(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(1)
}

func text(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	circuitStyle = panel(colorBlue)
	qasmStyle    = panel(colorPurple)

	titleStyle      = text(colorOrange).Bold(true)
	qubitLabelStyle = text(colorCyan)
	gateStyle       = text(colorTeal)
	dimStyle        = text(colorComment)
	errorStyle      = text(colorRed).Bold(true)

	tableBorderStyle = text(colorGreen)
	tableHeaderStyle = text(colorOrange).Bold(true).Padding(0, 1)
	tableCellStyle   = text(colorText).Padding(0, 1)
)
