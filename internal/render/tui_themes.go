package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme of the interactive interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Primary marks focus and titles, Secondary the employee identity
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	// Link colors the Show More / Show Less controls
	Link    lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

// Built-in TUI themes
var (
	// TokyoNightTheme is the default
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Link:      lipgloss.Color("#7dcfff"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:    lipgloss.Color("#c0caf5"),
		TextDim: lipgloss.Color("#565f89"),
	}

	GruvboxTheme = TUITheme{
		Name:        "gruvbox",
		Description: "Gruvbox, warm retro dark",

		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Border:     lipgloss.Color("#665c54"),

		Primary:   lipgloss.Color("#fabd2f"),
		Secondary: lipgloss.Color("#b8bb26"),
		Link:      lipgloss.Color("#83a598"),
		Warning:   lipgloss.Color("#fe8019"),
		Error:     lipgloss.Color("#fb4934"),

		Text:    lipgloss.Color("#ebdbb2"),
		TextDim: lipgloss.Color("#928374"),
	}

	SolarizedLightTheme = TUITheme{
		Name:        "solarized-light",
		Description: "Solarized for light terminals",

		Background: lipgloss.Color("#fdf6e3"),
		Surface:    lipgloss.Color("#eee8d5"),
		Border:     lipgloss.Color("#93a1a1"),

		Primary:   lipgloss.Color("#268bd2"),
		Secondary: lipgloss.Color("#859900"),
		Link:      lipgloss.Color("#2aa198"),
		Warning:   lipgloss.Color("#b58900"),
		Error:     lipgloss.Color("#dc322f"),

		Text:    lipgloss.Color("#586e75"),
		TextDim: lipgloss.Color("#93a1a1"),
	}

	// MonoTheme uses ANSI grays only
	MonoTheme = TUITheme{
		Name:        "mono",
		Description: "Monochrome, for limited terminals",

		Background: lipgloss.Color("0"),
		Surface:    lipgloss.Color("236"),
		Border:     lipgloss.Color("240"),

		Primary:   lipgloss.Color("15"),
		Secondary: lipgloss.Color("250"),
		Link:      lipgloss.Color("15"),
		Warning:   lipgloss.Color("250"),
		Error:     lipgloss.Color("15"),

		Text:    lipgloss.Color("252"),
		TextDim: lipgloss.Color("244"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates a theme by name; unknown names are ignored
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns all built-in TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		GruvboxTheme,
		SolarizedLightTheme,
		MonoTheme,
	}
}

// TUIThemeNames returns the theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
