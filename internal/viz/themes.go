package viz

import (
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the colours of one rendering style. Colours are hex
// strings so they can be blended and written to SVG.
type Theme struct {
	Name       string
	Background string
	Bodies     [3]string
	Vector     string
	Text       string
	Muted      string
	Accent     string
	Warning    string
	// Graph holds one asciigraph colour per simulation.
	Graph [2]asciigraph.AnsiColor
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:       "classic",
		Background: "#14343e",
		Bodies:     [3]string{"#ef476f", "#ffd166", "#06d6a0"},
		Vector:     "#f9f7f3",
		Text:       "#f9f7f3",
		Muted:      "#7a9aa3",
		Accent:     "#ffd166",
		Warning:    "#ef476f",
		Graph:      [2]asciigraph.AnsiColor{asciigraph.HotPink, asciigraph.Aquamarine},
	}

	ThemeMidnight = Theme{
		Name:       "midnight",
		Background: "#0a0a14",
		Bodies:     [3]string{"#ff6b6b", "#feca57", "#48dbfb"},
		Vector:     "#ffffff",
		Text:       "#e0e0ff",
		Muted:      "#666688",
		Accent:     "#00ffff",
		Warning:    "#ff4757",
		Graph:      [2]asciigraph.AnsiColor{asciigraph.Coral, asciigraph.DeepSkyBlue},
	}

	ThemeMono = Theme{
		Name:       "mono",
		Background: "#000000",
		Bodies:     [3]string{"#ffffff", "#bbbbbb", "#888888"},
		Vector:     "#ffffff",
		Text:       "#ffffff",
		Muted:      "#666666",
		Accent:     "#ffffff",
		Warning:    "#ffffff",
		Graph:      [2]asciigraph.AnsiColor{asciigraph.White, asciigraph.DarkGray},
	}

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeMidnight,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Blend mixes a towards b by t in [0, 1]. Unparseable input returns a.
func Blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendRgb(cb, t).Clamped().Hex()
}

// Translucent returns the theme as seen through a 50% veil of its own
// background, used for the second simulation.
func (t Theme) Translucent() Theme {
	out := t
	for i, c := range t.Bodies {
		out.Bodies[i] = Blend(c, t.Background, 0.5)
	}
	out.Vector = Blend(t.Vector, t.Background, 0.5)
	return out
}

// Faded returns c as used for the older half of a trail.
func (t Theme) Faded(c string) string {
	return Blend(c, t.Background, 0.6)
}
