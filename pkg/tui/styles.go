// Package tui provides the interactive terminal surfaces of lxcup: the
// storage pool menu, the app picker, and the provisioning confirmation.
package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme returns the huh theme used by every lxcup form.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(lipgloss.Color("39"))
	t.Focused.Description = t.Focused.Description.Foreground(lipgloss.Color("8"))
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(lipgloss.Color("40")).Bold(true)

	return t
}

// Shared styles for command output.
var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))

	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)
