package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// StyleManager encapsulates the listing styles
type StyleManager struct {
	Header   lipgloss.Style
	Name     lipgloss.Style
	Language lipgloss.Style
	Target   lipgloss.Style
	Deps     lipgloss.Style
	Origin   lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Header:   lipgloss.NewStyle().Bold(true),
		Name:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Language: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Target:   lipgloss.NewStyle(),
		Deps:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Origin:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Global style manager instance
var styles = DefaultStyles()
