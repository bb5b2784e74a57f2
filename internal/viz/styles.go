package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles derived from one Theme.
type styles struct {
	canvas  lipgloss.Style
	stats   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	help    lipgloss.Style
	graph   lipgloss.Style
}

func newStyles(t Theme) styles {
	stats := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(t.Muted)).
		Padding(0, 2).
		Width(statsWidth)

	return styles{
		canvas:  lipgloss.NewStyle().Padding(0, 1),
		stats:   stats,
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)).Width(11),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)).Bold(true),
		help:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)).MarginTop(1),
		graph:   lipgloss.NewStyle().Padding(1, 0, 0, 0),
	}
}

// GradientText renders text with its foreground blended from start to end.
func GradientText(text, start, end string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(Blend(start, end, t)))
		b.WriteString(style.Render(string(c)))
	}
	return b.String()
}

// Sparkline renders values as block characters, sampled to width.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// Separator draws a muted divider of the given width.
func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", max(width, 0))
	}
	mid := width / 2
	return strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1)
}
