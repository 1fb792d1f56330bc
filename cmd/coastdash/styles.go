package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spencer-p/coastdash/pkg/coastal"
)

var (
	appTitle     = "coastdash"
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")).Padding(0, 1)
	clockStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	infoStyle    = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	panelStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
)

// labelColors tints scores from best to worst.
var labelColors = map[coastal.Label]lipgloss.Color{
	coastal.Excellent: lipgloss.Color("42"),  // green
	coastal.Great:     lipgloss.Color("39"),  // blue
	coastal.Good:      lipgloss.Color("208"), // orange
	coastal.Fair:      lipgloss.Color("196"), // red
}

func scoreStyle(score float64) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(labelColors[coastal.ClassifyScore(score)])
}

// renderScore prints "9.2/10 Excellent" in the label's color.
func renderScore(score float64) string {
	return scoreStyle(score).Render(coastal.FormatScore(score) + " " + coastal.ClassifyScore(score).String())
}
