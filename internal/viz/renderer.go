package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/threebody/internal/analysis"
	"github.com/san-kum/threebody/internal/input"
	"github.com/san-kum/threebody/internal/sim"
)

const (
	// VectorScale converts a velocity into a drawn length in world units.
	VectorScale = 35.0

	// WorldHalf is the half-extent of the world square mapped onto the
	// canvas.
	WorldHalf = 500.0

	statsWidth  = 44
	graphHeight = 8

	minCols = 20
	minRows = 8
)

// Renderer draws simulation snapshots into a string frame. It keeps a
// scratch canvas between frames and is not safe for concurrent use.
type Renderer struct {
	theme  Theme
	styles styles
	canvas *Canvas
	half   float64
}

// NewRenderer creates a renderer whose canvas is cols x rows cells.
func NewRenderer(theme Theme, cols, rows int) *Renderer {
	return &Renderer{
		theme:  theme,
		styles: newStyles(theme),
		canvas: NewCanvas(max(cols, minCols), max(rows, minRows)),
		half:   WorldHalf,
	}
}

func (r *Renderer) Canvas() *Canvas { return r.canvas }

// Resize fits the canvas to a terminal of width x height cells, leaving
// room for the stats column and the help line.
func (r *Renderer) Resize(width, height int) {
	cols := max(width-statsWidth-4, minCols)
	rows := max(height-3, minRows)
	if cols == r.canvas.Width && rows == r.canvas.Height {
		return
	}
	r.canvas = NewCanvas(cols, rows)
}

// Draw renders one frame: bodies always, trails, velocity vectors and the
// distance graph as vis asks. The first snapshot is drawn on top; later
// ones are translucent.
func (r *Renderer) Draw(snaps []sim.Snapshot, vis input.VisualizationState) string {
	r.canvas.Clear()

	if len(snaps) == 0 {
		return r.styles.muted.Render("no simulation configured") + "\n" +
			r.styles.help.Render(input.Help()) + "\n"
	}

	for i := len(snaps) - 1; i >= 0; i-- {
		th := r.themeFor(i)
		if vis.ShowPaths {
			r.drawTrails(snaps[i], th)
		}
		if vis.ShowVectors {
			r.drawVectors(snaps[i], th)
		}
		r.drawBodies(snaps[i], th)
	}

	side := r.stats(snaps, vis)
	if vis.ShowGraph {
		side += r.styles.graph.Render(r.graph(snaps))
	}

	canvasView := r.styles.canvas.Render(r.canvas.Render(r.theme.Background))
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, r.styles.stats.Render(side))
	return main + "\n" + r.styles.help.Render(input.Help()) + "\n"
}

func (r *Renderer) themeFor(i int) Theme {
	if i == 0 {
		return r.theme
	}
	return r.theme.Translucent()
}

func (r *Renderer) scale() float64 {
	w, h := r.canvas.Dots()
	return float64(min(w, h)) / (2 * r.half)
}

// project maps world coordinates to canvas dots. Screen y grows downward,
// as does world y. ok is false for points too far off-canvas to draw.
func (r *Renderer) project(p mgl64.Vec2) (x, y int, ok bool) {
	w, h := r.canvas.Dots()
	s := r.scale()
	fx := float64(w)/2 + p.X()*s
	fy := float64(h)/2 + p.Y()*s
	if math.IsNaN(fx) || math.IsNaN(fy) ||
		fx < -float64(w) || fx > 2*float64(w) ||
		fy < -float64(h) || fy > 2*float64(h) {
		return 0, 0, false
	}
	return int(math.Round(fx)), int(math.Round(fy)), true
}

func (r *Renderer) drawTrails(s sim.Snapshot, th Theme) {
	for i, trail := range s.Trails {
		bright := th.Bodies[i]
		faded := th.Faded(bright)
		// the older half fades out
		cut := len(trail) / 2

		for k := 1; k < len(trail); k++ {
			x0, y0, ok0 := r.project(trail[k-1])
			x1, y1, ok1 := r.project(trail[k])
			if !ok0 || !ok1 {
				continue
			}
			color := bright
			if k < cut {
				color = faded
			}
			r.canvas.DrawLine(x0, y0, x1, y1, color)
		}
	}
}

func (r *Renderer) drawVectors(s sim.Snapshot, th Theme) {
	for i, p := range s.Positions {
		tip := p.Add(s.Velocities[i].Mul(VectorScale))
		x0, y0, ok0 := r.project(p)
		x1, y1, ok1 := r.project(tip)
		if !ok0 || !ok1 {
			continue
		}
		r.canvas.DrawLine(x0, y0, x1, y1, th.Vector)
	}
}

func (r *Renderer) drawBodies(s sim.Snapshot, th Theme) {
	sc := r.scale()
	for i, p := range s.Positions {
		x, y, ok := r.project(p)
		if !ok {
			continue
		}
		rad := int(math.Round(s.Radii[i] * sc))
		rad = max(1, min(rad, 4))
		r.canvas.FillCircle(x, y, rad, th.Bodies[i])
	}
}

func (r *Renderer) stats(snaps []sim.Snapshot, vis input.VisualizationState) string {
	st := r.styles
	var b strings.Builder

	b.WriteString(GradientText("THREE-BODY", r.theme.Bodies[0], r.theme.Bodies[2]) + "\n\n")

	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}

	for i, s := range snaps {
		th := r.themeFor(i)
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Bodies[0])).Render("●")
		b.WriteString(dot + " " + st.header.Render(fmt.Sprintf("SIMULATION %d", i+1)) + "\n")

		row("config", fmt.Sprintf("d=%g m=%g G=%g", s.Config.Distance, s.Config.Mass, s.Config.G))
		row("ticks", fmt.Sprintf("%d", s.Ticks))
		row("energy", fmt.Sprintf("%.5g", s.Energy))
		row("drift", fmt.Sprintf("%.2e", s.EnergyDrift))
		row("momentum", fmt.Sprintf("%.2e", s.Momentum.Len()))
		if s.Halted {
			b.WriteString(st.label.Render("status") + st.warning.Render("halted") + "\n")
		} else {
			row("status", "running")
		}
		b.WriteString("\n")
	}

	if len(snaps) == 2 {
		series := analysis.DivergenceSeries(snaps[0], snaps[1])
		b.WriteString(st.header.Render("DIVERGENCE") + "\n")
		if len(series) > 0 {
			row("current", fmt.Sprintf("%.4g", series[len(series)-1]))
			row("rate/step", fmt.Sprintf("%.3e", analysis.GrowthRate(series, 1)))
			b.WriteString(st.muted.Render(Sparkline(series, statsWidth-6)) + "\n")
		} else {
			row("current", "n/a")
		}
		b.WriteString("\n")
	}

	b.WriteString(st.muted.Render(Separator(statsWidth-6)) + "\n")
	b.WriteString(toggle(st, "graph", vis.ShowGraph) + "  " +
		toggle(st, "paths", vis.ShowPaths) + "  " +
		toggle(st, "vectors", vis.ShowVectors) + "\n")

	return b.String()
}

func toggle(st styles, name string, on bool) string {
	if on {
		return st.value.Render("● " + name)
	}
	return st.muted.Render("○ " + name)
}

// graph plots the mean pairwise distance, one series per simulation,
// over the samples every simulation has.
func (r *Renderer) graph(snaps []sim.Snapshot) string {
	n := len(snaps[0].Graph)
	for _, s := range snaps {
		n = min(n, len(s.Graph))
	}
	if n < 2 {
		return r.styles.muted.Render("collecting samples...")
	}

	data := make([][]float64, len(snaps))
	colors := make([]asciigraph.AnsiColor, len(snaps))
	legends := make([]string, len(snaps))
	for i, s := range snaps {
		data[i] = finite(s.Graph[len(s.Graph)-n:])
		colors[i] = r.theme.Graph[i%len(r.theme.Graph)]
		legends[i] = fmt.Sprintf("simulation%d", i+1)
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(graphHeight),
		asciigraph.Width(statsWidth-14),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("mean pairwise distance"),
	)
}

// finite replaces non-finite samples with the previous finite one.
func finite(xs []float64) []float64 {
	out := make([]float64, len(xs))
	last := 0.0
	for i, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = last
		}
		out[i] = v
		last = v
	}
	return out
}
