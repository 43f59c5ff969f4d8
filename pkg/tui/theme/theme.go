package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the agenda UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Item   ItemTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PanelTheme styles section headings.
type PanelTheme struct {
	Title lipgloss.Style
	Count lipgloss.Style
	Empty lipgloss.Style
}

// ItemTheme styles agenda rows.
type ItemTheme struct {
	Normal      lipgloss.Style
	Selected    lipgloss.Style
	Completed   lipgloss.Style
	Subtitle    lipgloss.Style
	Time        lipgloss.Style
	Blocked     lipgloss.Style
	Destructive lipgloss.Style
	Warning     lipgloss.Style
	Neutral     lipgloss.Style
	Default     lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Panel: PanelTheme{
			Title: lipgloss.NewStyle().Bold(true).Underline(true),
			Count: lipgloss.NewStyle().Faint(true),
			Empty: lipgloss.NewStyle().Faint(true).Italic(true),
		},
		Item: ItemTheme{
			Normal:      lipgloss.NewStyle(),
			Selected:    lipgloss.NewStyle().Reverse(true),
			Completed:   lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Time:        lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
			Blocked:     lipgloss.NewStyle().Foreground(lipgloss.Color("176")),
			Destructive: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Neutral:     lipgloss.NewStyle().Faint(true),
			Default:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		},
	}
}

// Swatch renders a coloured dot for an area colour.
func Swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}
