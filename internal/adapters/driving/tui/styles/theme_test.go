package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func palette(t *Theme) map[string]lipgloss.TerminalColor {
	return map[string]lipgloss.TerminalColor{
		"primary":   t.Primary,
		"secondary": t.Secondary,
		"text":      t.Text,
		"muted":     t.Muted,
		"surface":   t.Surface,
		"success":   t.Success,
		"warning":   t.Warning,
		"error":     t.Error,
		"border":    t.Border,
	}
}

func TestDefaultTheme_AdaptsToBackground(t *testing.T) {
	for name, c := range palette(DefaultTheme()) {
		t.Run(name, func(t *testing.T) {
			ac, ok := c.(lipgloss.AdaptiveColor)
			require.True(t, ok)
			assert.NotEmpty(t, ac.Light)
			assert.NotEmpty(t, ac.Dark)
			assert.NotEqual(t, ac.Light, ac.Dark)
		})
	}
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()
	seen := make(map[lipgloss.AdaptiveColor]bool)

	for _, c := range []lipgloss.TerminalColor{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		ac := c.(lipgloss.AdaptiveColor)
		assert.False(t, seen[ac], "duplicate accent %v", ac)
		seen[ac] = true
	}
}

func TestMonoTheme(t *testing.T) {
	theme := MonoTheme()

	assert.Equal(t, "mono", theme.Name)
	for name, c := range palette(theme) {
		assert.IsType(t, lipgloss.NoColor{}, c, name)
	}
}

func TestThemeFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unset", nil, "default"},
		{"empty", map[string]string{NoColorEnv: ""}, "default"},
		{"set", map[string]string{NoColorEnv: "1"}, "mono"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := ThemeFromEnv(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.want, theme.Name)
		})
	}

	assert.Equal(t, "default", ThemeFromEnv(nil).Name)
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()

	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
	assert.Equal(t, "default", NewStyles(nil).Theme().Name)
	assert.Equal(t, "default", DefaultStyles().Theme().Name)
}

func TestNewStyles_Attributes(t *testing.T) {
	s := DefaultStyles()

	assert.True(t, s.Title.GetBold())
	assert.True(t, s.Subtitle.GetBold())
	assert.True(t, s.Question.GetBold())
	assert.True(t, s.Selected.GetBold())
	assert.False(t, s.Selected.GetReverse())
	assert.False(t, s.Muted.GetFaint())
	assert.Equal(t, 2, s.Answer.GetPaddingLeft())
	assert.Equal(t, 1, s.InputField.GetPaddingLeft())
	assert.Equal(t, s.Theme().Surface, s.StatusBar.GetBackground())
	assert.Equal(t, lipgloss.RoundedBorder(), s.Border.GetBorderStyle())
}

func TestNewStyles_MonoUsesAttributes(t *testing.T) {
	s := NewStyles(MonoTheme())

	assert.True(t, s.Selected.GetReverse())
	assert.True(t, s.Muted.GetFaint())
	assert.True(t, s.Error.GetBold())
}

func TestStyles_RenderKeepsText(t *testing.T) {
	for _, s := range []*Styles{DefaultStyles(), NewStyles(MonoTheme())} {
		for name, st := range map[string]lipgloss.Style{
			"title":    s.Title,
			"muted":    s.Muted,
			"selected": s.Selected,
			"error":    s.Error,
			"help":     s.Help,
		} {
			t.Run(s.Theme().Name+"/"+name, func(t *testing.T) {
				assert.Contains(t, st.Render("mitosis"), "mitosis")
			})
		}
	}
}

func TestWrap(t *testing.T) {
	s := DefaultStyles()
	text := strings.Repeat("mitochondria ", 10)

	wrapped := Wrap(s.Normal, 30, text)

	assert.Greater(t, strings.Count(wrapped, "\n"), 2)
	assert.Contains(t, wrapped, "mitochondria")
}

func TestWrap_MinimumWidth(t *testing.T) {
	s := DefaultStyles()

	wrapped := Wrap(s.Normal, 5, "short words only")

	assert.Equal(t, 0, strings.Count(wrapped, "\n"))
}
