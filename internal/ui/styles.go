package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// styleSet holds the picker's lipgloss styles.
type styleSet struct {
	Header   lipgloss.Style
	Option   lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style
	Divider  lipgloss.Style
}

func defaultStyles() styleSet {
	return styleSet{
		Header:   lipgloss.NewStyle().Bold(true),
		Option:   lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Divider:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

var styles = defaultStyles()
