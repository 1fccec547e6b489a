package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/quitline/internal/constants"
)

// Styles is the palette one theme renders with.
type Styles struct {
	Title   lipgloss.Style
	Panel   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
	Doc     lipgloss.Style
}

type palette struct {
	accent, text, muted, border, success, warning, danger lipgloss.Color
}

var palettes = map[constants.Theme]palette{
	constants.ThemeLight: {
		accent:  "25",
		text:    "235",
		muted:   "245",
		border:  "250",
		success: "28",
		warning: "166",
		danger:  "160",
	},
	constants.ThemeDark: {
		accent:  "205",
		text:    "252",
		muted:   "240",
		border:  "238",
		success: "42",
		warning: "214",
		danger:  "196",
	},
}

// StylesFor builds the styles of theme, falling back to the default theme.
func StylesFor(theme constants.Theme) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[constants.DefaultTheme]
	}
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		Label:   lipgloss.NewStyle().Foreground(p.muted),
		Value:   lipgloss.NewStyle().Foreground(p.text).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(p.muted),
		Success: lipgloss.NewStyle().Foreground(p.success),
		Warning: lipgloss.NewStyle().Foreground(p.warning),
		Danger:  lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		Doc:     lipgloss.NewStyle().Margin(1, 2),
	}
}

func nextTheme(t constants.Theme) constants.Theme {
	if t == constants.ThemeDark {
		return constants.ThemeLight
	}
	return constants.ThemeDark
}
