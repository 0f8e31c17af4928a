package tui

import (
	"github.com/charmbracelet/lipgloss"

	"tasksync/internal/config"
)

// Palette holds the colors of one theme.
type Palette struct {
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Done    lipgloss.Color
	Error   lipgloss.Color
	Surface lipgloss.Color
}

var (
	darkPalette = Palette{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Text:    lipgloss.Color("#F9FAFB"),
		Muted:   lipgloss.Color("#9CA3AF"),
		Done:    lipgloss.Color("#10B981"), // Green
		Error:   lipgloss.Color("#EF4444"), // Red
		Surface: lipgloss.Color("#1F2937"),
	}
	lightPalette = Palette{
		Primary: lipgloss.Color("#6D28D9"),
		Text:    lipgloss.Color("#111827"),
		Muted:   lipgloss.Color("#6B7280"),
		Done:    lipgloss.Color("#047857"),
		Error:   lipgloss.Color("#B91C1C"),
		Surface: lipgloss.Color("#F3F4F6"),
	}
)

// Styles holds the styles for the TUI.
type Styles struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Input     lipgloss.Style
	InputBlur lipgloss.Style
	Cursor    lipgloss.Style
	Task      lipgloss.Style
	TaskDone  lipgloss.Style
	Empty     lipgloss.Style
	Error     lipgloss.Style
	URL       lipgloss.Style
	Dialog    lipgloss.Style
	Help      lipgloss.Style
}

// StylesFor returns the styles of the named theme. Unknown names fall back
// to the dark theme.
func StylesFor(theme string) Styles {
	if theme == config.ThemeLight {
		return newStyles(lightPalette)
	}
	return newStyles(darkPalette)
}

func newStyles(p Palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginBottom(1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),
		InputBlur: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Muted).
			Padding(0, 1),
		Cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Task: lipgloss.NewStyle().
			Foreground(p.Text),
		TaskDone: lipgloss.NewStyle().
			Foreground(p.Done).
			Strikethrough(true),
		Empty: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		URL: lipgloss.NewStyle().
			Foreground(p.Primary).
			Underline(true),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Error).
			Background(p.Surface).
			Foreground(p.Text).
			Padding(1, 3),
		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),
	}
}
