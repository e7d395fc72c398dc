// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jlong/planit/internal/core/body"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

var (
	mu      sync.RWMutex
	current = themes[DefaultTheme]
)

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette looks up a built-in palette by name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// SetTheme installs the active palette.
func SetTheme(p Palette) {
	mu.Lock()
	defer mu.Unlock()
	current = p
}

func active() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Title styles galaxy and body titles.
func Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(active().Foreground)
}

// Muted styles secondary text such as ids and timestamps.
func Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(active().Muted)
}

// ForKind returns the style used to render a body kind tag.
func ForKind(k body.Kind) lipgloss.Style {
	p := active()
	switch k {
	case body.KindStar:
		return lipgloss.NewStyle().Bold(true).Foreground(p.Warning)
	case body.KindComet:
		return lipgloss.NewStyle().Foreground(p.Error)
	default:
		return lipgloss.NewStyle().Foreground(p.Primary)
	}
}

// ForStatus returns the style used to render a body status.
func ForStatus(s body.Status) lipgloss.Style {
	p := active()
	switch s {
	case body.StatusDone:
		return lipgloss.NewStyle().Foreground(p.Success)
	case body.StatusBlocked:
		return lipgloss.NewStyle().Foreground(p.Error)
	case body.StatusInProgress:
		return lipgloss.NewStyle().Foreground(p.Secondary)
	default:
		return lipgloss.NewStyle().Foreground(p.Foreground)
	}
}
