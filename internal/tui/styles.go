package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for terminal output.
type Theme struct {
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Background lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor
}

// DefaultTheme returns the storefront palette.
func DefaultTheme() Theme {
	return Theme{
		Primary:    lipgloss.AdaptiveColor{Light: "#c2410c", Dark: "#fb923c"},
		Secondary:  lipgloss.AdaptiveColor{Light: "#5f6368", Dark: "#9aa0a6"},
		Success:    lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#86efac"},
		Warning:    lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fde68a"},
		Error:      lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#fca5a5"},
		Muted:      lipgloss.AdaptiveColor{Light: "#78716c", Dark: "#a8a29e"},
		Background: lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#1c1917"},
		Foreground: lipgloss.AdaptiveColor{Light: "#1c1917", Dark: "#f5f5f4"},
		Border:     lipgloss.AdaptiveColor{Light: "#d6d3d1", Dark: "#44403c"},
	}
}

// Styles holds the styled components used by interactive commands.
type Styles struct {
	theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style

	StatusOK    lipgloss.Style
	StatusError lipgloss.Style
}

// NewStyles creates a new Styles with the resolved theme.
func NewStyles() *Styles {
	return NewStylesWithTheme(ResolveTheme())
}

// NewStylesWithTheme creates a new Styles with a custom theme.
func NewStylesWithTheme(theme Theme) *Styles {
	s := &Styles{theme: theme}

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Primary).
		MarginBottom(1)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	s.Body = lipgloss.NewStyle().
		Foreground(theme.Foreground)

	s.Muted = lipgloss.NewStyle().
		Foreground(theme.Muted)

	s.Success = lipgloss.NewStyle().
		Foreground(theme.Success)

	s.Warning = lipgloss.NewStyle().
		Foreground(theme.Warning)

	s.Error = lipgloss.NewStyle().
		Foreground(theme.Error)

	s.StatusOK = lipgloss.NewStyle().
		Foreground(theme.Success).
		Bold(true)

	s.StatusError = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)

	return s
}

// Theme returns the current theme.
func (s *Styles) Theme() Theme {
	return s.theme
}

// RenderTitle renders a title with optional subtitle.
func (s *Styles) RenderTitle(title string, subtitle ...string) string {
	result := s.Title.Render(title)
	if len(subtitle) > 0 && subtitle[0] != "" {
		result += "\n" + s.Subtitle.Render(subtitle[0])
	}
	return result
}

// RenderKeyValue renders a key-value pair.
func (s *Styles) RenderKeyValue(key, value string) string {
	return s.Muted.Render(key+": ") + s.Body.Render(value)
}

// RenderStatus renders a status message with appropriate styling.
func (s *Styles) RenderStatus(ok bool, message string) string {
	if ok {
		return s.StatusOK.Render("✓ " + message)
	}
	return s.StatusError.Render("✗ " + message)
}
