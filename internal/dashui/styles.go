package dashui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	text   lipgloss.Color
	muted  lipgloss.Color
	accent lipgloss.Color
	border lipgloss.Color
	err    lipgloss.Color
}

var (
	darkColors = palette{
		text:   lipgloss.Color("#F0F0F0"),
		muted:  lipgloss.Color("#8C8C8C"),
		accent: lipgloss.Color("#C89A3A"),
		border: lipgloss.Color("#4A4A4A"),
		err:    lipgloss.Color("#FF4D4F"),
	}
	lightColors = palette{
		text:   lipgloss.Color("#1F2328"),
		muted:  lipgloss.Color("#59636E"),
		accent: lipgloss.Color("#9A6700"),
		border: lipgloss.Color("#D0D7DE"),
		err:    lipgloss.Color("#CF222E"),
	}
)

type styles struct {
	activeNav   lipgloss.Style
	inactiveNav lipgloss.Style
	header      lipgloss.Style
	err         lipgloss.Style
	cursor      lipgloss.Style
	selected    lipgloss.Style
}

func newStyles(theme string) styles {
	c := darkColors
	if theme == "light" {
		c = lightColors
	}
	return styles{
		activeNav: lipgloss.NewStyle().
			Foreground(c.text).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(c.accent),
		inactiveNav: lipgloss.NewStyle().
			Foreground(c.muted).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(c.border),
		header:   lipgloss.NewStyle().Foreground(c.muted),
		err:      lipgloss.NewStyle().Foreground(c.err),
		cursor:   lipgloss.NewStyle().Foreground(c.accent).Bold(true),
		selected: lipgloss.NewStyle().Foreground(c.text).Bold(true),
	}
}
