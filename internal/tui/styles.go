// Package tui provides the BubbleTea front end for a SYNTHIA session
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme
type Theme string

const (
	// ThemeNeon is the default purple and cyan theme
	ThemeNeon Theme = "neon"
	// ThemeMono is a grayscale theme
	ThemeMono Theme = "mono"
)

// Colors holds color definitions
type Colors struct {
	Background string
	Foreground string
	Muted      string
	Accent     string
	Secondary  string
	Highlight  string
	User       string
	Bot        string
	Border     string
	Warning    string
}

var neonColors = Colors{
	Background: "#0d0221",
	Foreground: "#f6f1ff",
	Muted:      "#6b5b95",
	Accent:     "#ff2a6d",
	Secondary:  "#05d9e8",
	Highlight:  "#d300c5",
	User:       "#05d9e8",
	Bot:        "#ff71ce",
	Border:     "#3d2c8d",
	Warning:    "#fffb96",
}

var monoColors = Colors{
	Background: "#000000",
	Foreground: "#e0e0e0",
	Muted:      "#707070",
	Accent:     "#ffffff",
	Secondary:  "#bdbdbd",
	Highlight:  "#ffffff",
	User:       "#bdbdbd",
	Bot:        "#ffffff",
	Border:     "#4a4a4a",
	Warning:    "#ffffff",
}

// Styles holds all TUI styles
type Styles struct {
	Theme     Theme
	Colors    Colors
	App       AppStyles
	Face      FaceStyles
	Chat      ChatStyles
	Generator GeneratorStyles
	Player    PlayerStyles
	StatusBar StatusBarStyles
}

// AppStyles holds application-level styles
type AppStyles struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	PanelBorder   lipgloss.Style
	FocusedBorder lipgloss.Style
	PanelTitle    lipgloss.Style
}

// FaceStyles holds avatar panel styles
type FaceStyles struct {
	Head     lipgloss.Style
	Eyes     lipgloss.Style
	Mouth    lipgloss.Style
	Status   lipgloss.Style
	Thinking lipgloss.Style
}

// ChatStyles holds chat panel styles
type ChatStyles struct {
	UserMessage lipgloss.Style
	BotMessage  lipgloss.Style
	Sender      lipgloss.Style
	Timestamp   lipgloss.Style
	Prompt      lipgloss.Style
	QuickPrompt lipgloss.Style
}

// GeneratorStyles holds song generator styles
type GeneratorStyles struct {
	Label lipgloss.Style
	Genre lipgloss.Style
	Arrow lipgloss.Style
}

// PlayerStyles holds player and song list styles
type PlayerStyles struct {
	Title       lipgloss.Style
	Genre       lipgloss.Style
	Time        lipgloss.Style
	BarFilled   lipgloss.Style
	BarEmpty    lipgloss.Style
	Song        lipgloss.Style
	Current     lipgloss.Style
	Cursor      lipgloss.Style
	Placeholder lipgloss.Style
}

// StatusBarStyles holds status bar styles
type StatusBarStyles struct {
	Container lipgloss.Style
	Mode      lipgloss.Style
	Info      lipgloss.Style
	Warning   lipgloss.Style
}

// NewStyles creates styles for the given theme. Unknown themes fall back to
// neon.
func NewStyles(theme Theme) Styles {
	var colors Colors
	switch theme {
	case ThemeMono:
		colors = monoColors
	default:
		theme = ThemeNeon
		colors = neonColors
	}

	fg := lipgloss.Color(colors.Foreground)
	muted := lipgloss.Color(colors.Muted)
	accent := lipgloss.Color(colors.Accent)
	secondary := lipgloss.Color(colors.Secondary)
	highlight := lipgloss.Color(colors.Highlight)

	return Styles{
		Theme:  theme,
		Colors: colors,
		App: AppStyles{
			Title: lipgloss.NewStyle().
				Foreground(accent).
				Bold(true),
			Subtitle: lipgloss.NewStyle().
				Foreground(muted).
				Italic(true),
			PanelBorder: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(colors.Border)).
				Padding(0, 1),
			FocusedBorder: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(highlight).
				Padding(0, 1),
			PanelTitle: lipgloss.NewStyle().
				Foreground(secondary).
				Bold(true),
		},
		Face: FaceStyles{
			Head:     lipgloss.NewStyle().Foreground(highlight),
			Eyes:     lipgloss.NewStyle().Foreground(secondary).Bold(true),
			Mouth:    lipgloss.NewStyle().Foreground(accent),
			Status:   lipgloss.NewStyle().Foreground(fg).Bold(true),
			Thinking: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Warning)),
		},
		Chat: ChatStyles{
			UserMessage: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.User)),
			BotMessage:  lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Bot)),
			Sender:      lipgloss.NewStyle().Bold(true),
			Timestamp:   lipgloss.NewStyle().Foreground(muted),
			Prompt:      lipgloss.NewStyle().Foreground(accent),
			QuickPrompt: lipgloss.NewStyle().Foreground(muted),
		},
		Generator: GeneratorStyles{
			Label: lipgloss.NewStyle().Foreground(muted),
			Genre: lipgloss.NewStyle().Foreground(secondary).Bold(true),
			Arrow: lipgloss.NewStyle().Foreground(highlight),
		},
		Player: PlayerStyles{
			Title:       lipgloss.NewStyle().Foreground(fg).Bold(true),
			Genre:       lipgloss.NewStyle().Foreground(secondary),
			Time:        lipgloss.NewStyle().Foreground(muted),
			BarFilled:   lipgloss.NewStyle().Foreground(accent),
			BarEmpty:    lipgloss.NewStyle().Foreground(muted),
			Song:        lipgloss.NewStyle().Foreground(fg),
			Current:     lipgloss.NewStyle().Foreground(highlight).Bold(true),
			Cursor:      lipgloss.NewStyle().Foreground(accent),
			Placeholder: lipgloss.NewStyle().Foreground(muted).Italic(true),
		},
		StatusBar: StatusBarStyles{
			Container: lipgloss.NewStyle().
				Foreground(fg).
				Padding(0, 1),
			Mode: lipgloss.NewStyle().
				Foreground(lipgloss.Color(colors.Background)).
				Background(highlight).
				Bold(true).
				Padding(0, 1),
			Info:    lipgloss.NewStyle().Foreground(muted),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Warning)),
		},
	}
}

// DefaultStyles returns the neon styles
func DefaultStyles() Styles {
	return NewStyles(ThemeNeon)
}

// Panel wraps content in the panel border, highlighted when focused.
func (s Styles) Panel(title, content string, width int, focused bool) string {
	border := s.App.PanelBorder
	if focused {
		border = s.App.FocusedBorder
	}
	if width > 2 {
		border = border.Width(width - 2)
	}
	return border.Render(s.App.PanelTitle.Render(title) + "\n" + content)
}
