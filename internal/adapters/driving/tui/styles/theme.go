// Package styles holds the TUI palette and the lipgloss styles built from it.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// NoColorEnv disables colour when set to any non-empty value.
// See https://no-color.org.
const NoColorEnv = "NO_COLOR"

// Theme is a palette. Each colour carries a light and a dark variant and
// lipgloss picks one from the terminal background.
type Theme struct {
	Name string

	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Surface   lipgloss.TerminalColor // status bar background
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
}

// DefaultTheme is the teal and amber StudyMate palette.
func DefaultTheme() *Theme {
	return &Theme{
		Name:      "default",
		Primary:   lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"},
		Secondary: lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"},
		Text:      lipgloss.AdaptiveColor{Light: "#1E1E2E", Dark: "#CDD6F4"},
		Muted:     lipgloss.AdaptiveColor{Light: "#8C8FA1", Dark: "#6C7086"},
		Surface:   lipgloss.AdaptiveColor{Light: "#E6E9EF", Dark: "#181825"},
		Success:   lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"},
		Warning:   lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"},
		Error:     lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"},
		Border:    lipgloss.AdaptiveColor{Light: "#BCC0CC", Dark: "#45475A"},
	}
}

// MonoTheme uses the terminal's own colours throughout. Emphasis comes from
// bold, faint and reverse attributes only.
func MonoTheme() *Theme {
	none := lipgloss.NoColor{}
	return &Theme{
		Name:      "mono",
		Primary:   none,
		Secondary: none,
		Text:      none,
		Muted:     none,
		Surface:   none,
		Success:   none,
		Warning:   none,
		Error:     none,
		Border:    none,
	}
}

// ThemeFromEnv returns MonoTheme when NO_COLOR is set and DefaultTheme
// otherwise.
func ThemeFromEnv(getenv func(string) string) *Theme {
	if getenv != nil && getenv(NoColorEnv) != "" {
		return MonoTheme()
	}
	return DefaultTheme()
}

// Styles are the rendered styles of one theme.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Question   lipgloss.Style
	Answer     lipgloss.Style // indented under its question
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles builds the styles for theme. A nil theme means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	bordered := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	s := &Styles{
		theme:      theme,
		Title:      fg(theme.Primary).Bold(true),
		Subtitle:   fg(theme.Secondary).Bold(true),
		Normal:     fg(theme.Text),
		Muted:      fg(theme.Muted).Faint(isMono(theme)),
		Selected:   fg(theme.Text).Background(theme.Primary).Bold(true),
		Error:      fg(theme.Error).Bold(isMono(theme)),
		Success:    fg(theme.Success),
		Warning:    fg(theme.Warning),
		Question:   fg(theme.Secondary).Bold(true),
		Answer:     fg(theme.Text).PaddingLeft(2),
		InputField: bordered.Padding(0, 1),
		StatusBar:  fg(theme.Muted).Background(theme.Surface).Padding(0, 1),
		Help:       fg(theme.Muted),
		Border:     bordered,
	}
	if isMono(theme) {
		s.Selected = s.Selected.Reverse(true)
	}
	return s
}

func isMono(t *Theme) bool {
	_, ok := t.Primary.(lipgloss.NoColor)
	return ok
}

// DefaultStyles returns the styles of DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Wrap renders text with st, word-wrapped to width. Widths under 20 are
// raised to 20.
func Wrap(st lipgloss.Style, width int, text string) string {
	return st.Width(max(width, 20)).Render(text)
}
