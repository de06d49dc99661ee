// Package ui renders command-line output: colored status lines, file summary
// boxes and issue tables.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles defines all lipgloss styles used in the CLI.
var Styles = struct {
	Bold     lipgloss.Style
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	FileBox  lipgloss.Style
	ErrorBox lipgloss.Style
}{
	Bold:    lipgloss.NewStyle().Bold(true),
	Header:  lipgloss.NewStyle().Bold(true).Underline(true),
	Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),

	FileBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1),
}
