// Package styles holds the lipgloss styles shared by the TUI views.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles groups the styles a view renders with.
type Styles struct {
	Title     lipgloss.Style
	Crumb     lipgloss.Style
	Heading   lipgloss.Style
	Bullet    lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Dialog    lipgloss.Style
	Label     lipgloss.Style
	Separator lipgloss.Style
}

// DefaultStyles returns the default colour scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("63")).
			Padding(0, 1),
		Crumb:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Bullet:  lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		Label:     lipgloss.NewStyle().Bold(true),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
