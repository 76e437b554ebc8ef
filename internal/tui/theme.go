package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/tomo/internal/model"
	"github.com/fakeyudi/tomo/internal/profile"
)

// Theme is the colour palette used by every screen.
type Theme struct {
	Name   string
	Focus  lipgloss.Color // focus phase accent
	Break  lipgloss.Color // short and long break accent
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Panel  lipgloss.Color // bars and selected rows
	Header lipgloss.Color
}

var themes = map[string]Theme{
	profile.ThemeTomato: {
		Name:   profile.ThemeTomato,
		Focus:  lipgloss.Color("203"),
		Break:  lipgloss.Color("78"),
		Text:   lipgloss.Color("15"),
		Muted:  lipgloss.Color("240"),
		Panel:  lipgloss.Color("235"),
		Header: lipgloss.Color("160"),
	},
	profile.ThemeMono: {
		Name:   profile.ThemeMono,
		Focus:  lipgloss.Color("252"),
		Break:  lipgloss.Color("245"),
		Text:   lipgloss.Color("15"),
		Muted:  lipgloss.Color("240"),
		Panel:  lipgloss.Color("236"),
		Header: lipgloss.Color("238"),
	},
}

// ThemeFor returns the named theme, falling back to tomato.
func ThemeFor(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[profile.ThemeTomato]
}

// Accent returns the colour for phase p.
func (t Theme) Accent(p model.Phase) lipgloss.Color {
	if p.IsBreak() {
		return t.Break
	}
	return t.Focus
}

type styles struct {
	title     lipgloss.Style
	clock     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	dim       lipgloss.Style
	heading   lipgloss.Style
	status    lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	selected  lipgloss.Style
	flash     lipgloss.Style
	card      lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			Background(t.Header).
			Padding(0, 2),
		clock: lipgloss.NewStyle().
			Bold(true).
			Padding(1, 0),
		label: lipgloss.NewStyle().
			Foreground(t.Muted).
			Bold(true),
		value: lipgloss.NewStyle().
			Foreground(t.Text),
		dim: lipgloss.NewStyle().
			Foreground(t.Muted),
		heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Focus),
		status: lipgloss.NewStyle().
			Background(t.Panel).
			Foreground(t.Muted).
			Padding(0, 1),
		tab: lipgloss.NewStyle().
			Foreground(t.Muted).
			Background(t.Panel).
			Padding(0, 1),
		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			Background(t.Header).
			Padding(0, 1),
		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			Background(t.Panel),
		flash: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Break),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
	}
}

// badge renders the phase label in the phase's accent colour.
func (t Theme) badge(p model.Phase) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text).
		Background(t.Accent(p)).
		Padding(0, 1).
		Render(p.Label())
}
