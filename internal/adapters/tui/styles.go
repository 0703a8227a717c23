package tui

import "github.com/charmbracelet/lipgloss"

// Styles задаёт оформление панелей терминального дашборда.
type Styles struct {
	Header   lipgloss.Style
	Section  lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Banner   lipgloss.Style
	Failure  lipgloss.Style
	Badge    lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles возвращает оформление по умолчанию.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
		Section:  lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Banner:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")).Padding(0, 1),
		Failure:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		Footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	}
}

// Theme окрашивает название темы кластера.
func (s Styles) Theme(ansi string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ansi)).Bold(true)
}
