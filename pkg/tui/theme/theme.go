package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	Footer FooterTheme
	Modal  ModalTheme
}

// HeaderTheme styles the day banner above the entries table.
type HeaderTheme struct {
	Day      lipgloss.Style
	Today    lipgloss.Style
	Subtle   lipgloss.Style
	Calories lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// ModalTheme styles the entry form overlay.
type ModalTheme struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	subtle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	return Theme{
		Header: HeaderTheme{
			Day:      lipgloss.NewStyle().Bold(true),
			Today:    lipgloss.NewStyle().Foreground(accent).Bold(true),
			Subtle:   subtle,
			Calories: lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: subtle,
			Error:  errStyle,
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title:   lipgloss.NewStyle().Bold(true),
			Label:   subtle,
			Focused: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Error:   errStyle,
			Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		},
	}
}
