package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors of the panel
type Theme struct {
	StateForeground lipgloss.Color
	EntryForeground lipgloss.Color
	ZoneOK          lipgloss.Color
	ZoneOpen        lipgloss.Color
	NoticeText      lipgloss.Color
	HelpText        lipgloss.Color
	BorderColor     lipgloss.Color
}

// DefaultTheme uses ANSI 256 colors
var DefaultTheme = Theme{
	StateForeground: lipgloss.Color("231"),
	EntryForeground: lipgloss.Color("214"),
	ZoneOK:          lipgloss.Color("71"),
	ZoneOpen:        lipgloss.Color("203"),
	NoticeText:      lipgloss.Color("180"),
	HelpText:        lipgloss.Color("243"),
	BorderColor:     lipgloss.Color("240"),
}

type styles struct {
	state    lipgloss.Style
	entry    lipgloss.Style
	zoneOK   lipgloss.Style
	zoneOpen lipgloss.Style
	notice   lipgloss.Style
	help     lipgloss.Style
	box      lipgloss.Style
}

func newStyles(theme Theme) styles {
	return styles{
		state:    lipgloss.NewStyle().Bold(true).Foreground(theme.StateForeground),
		entry:    lipgloss.NewStyle().Bold(true).Foreground(theme.EntryForeground),
		zoneOK:   lipgloss.NewStyle().Foreground(theme.ZoneOK),
		zoneOpen: lipgloss.NewStyle().Bold(true).Foreground(theme.ZoneOpen),
		notice:   lipgloss.NewStyle().Italic(true).Foreground(theme.NoticeText),
		help:     lipgloss.NewStyle().Foreground(theme.HelpText),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor).
			Padding(0, 1),
	}
}
