package viz

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/input"
	"github.com/san-kum/threebody/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(3, 5, "#ff0000")

	if !c.Lit(3, 5) {
		t.Error("pixel (3,5) should be lit")
	}
	if c.Lit(2, 5) {
		t.Error("pixel (2,5) should not be lit")
	}
	if got := c.Colors[1][1]; got != "#ff0000" {
		t.Errorf("cell colour = %q", got)
	}

	// out of range is ignored
	c.Set(-1, 0, "")
	c.Set(100, 100, "")

	c.Clear()
	if c.Lit(3, 5) || c.Colors[1][1] != "" {
		t.Error("clear should reset pixels and colours")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19, "#ffffff")

	for _, p := range [][2]int{{0, 0}, {10, 10}, {19, 19}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("pixel %v should be on the line", p)
		}
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(0, 0, "#ff0000")
	c.Set(2, 0, "#00ff00")

	out := c.Render("#000000")
	if !strings.Contains(out, string(rune(blank|0x1))) {
		t.Errorf("render lost the lit cells: %q", out)
	}
	if strings.Count(c.String(), "\n") != 1 {
		t.Error("expected one row")
	}
}

func TestBlend(t *testing.T) {
	if got := Blend("#000000", "#ffffff", 0.5); got != "#808080" {
		t.Errorf("Blend() = %s, want #808080", got)
	}
	if got := Blend("#123456", "#ffffff", 0); got != "#123456" {
		t.Errorf("Blend(t=0) = %s", got)
	}
	if got := Blend("nope", "#ffffff", 0.5); got != "nope" {
		t.Errorf("invalid colour should pass through, got %s", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("unknown").Name != "classic" {
		t.Error("unknown theme should fall back to classic")
	}
	for _, name := range ThemeNames() {
		if GetTheme(name).Name != name {
			t.Errorf("theme %q not found", name)
		}
	}

	tr := ThemeClassic.Translucent()
	for i := range tr.Bodies {
		want := Blend(ThemeClassic.Bodies[i], ThemeClassic.Background, 0.5)
		if tr.Bodies[i] != want {
			t.Errorf("translucent body %d = %s, want %s", i, tr.Bodies[i], want)
		}
	}
	if tr.Background != ThemeClassic.Background {
		t.Error("translucent theme keeps the background")
	}
}

func snapshot(t *testing.T, cfg sim.Config, steps int) sim.Snapshot {
	t.Helper()
	s, err := sim.New(cfg, sim.DefaultOptions())
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	for i := 0; i < steps; i++ {
		if err := s.Step(1); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	return s.State()
}

func litCount(c *Canvas) int {
	n := 0
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.Lit(x, y) {
				n++
			}
		}
	}
	return n
}

var chaos = sim.Config{Distance: 400, Mass: 1000, G: 0.4}

func TestRendererDrawsBodies(t *testing.T) {
	r := NewRenderer(ThemeClassic, 100, 50)
	snap := snapshot(t, chaos, 0)

	out := r.Draw([]sim.Snapshot{snap}, input.VisualizationState{})

	for i, p := range snap.Positions {
		x, y, ok := r.project(p)
		if !ok || !r.Canvas().Lit(x, y) {
			t.Errorf("body %d not drawn at (%d,%d)", i+1, x, y)
		}
		if got := r.Canvas().Colors[y/4][x/2]; got != ThemeClassic.Bodies[i] {
			t.Errorf("body %d colour = %s, want %s", i+1, got, ThemeClassic.Bodies[i])
		}
	}

	if !strings.Contains(out, "SIMULATION 1") || strings.Contains(out, "SIMULATION 2") {
		t.Error("stats should list exactly one simulation")
	}
	if strings.Contains(out, "DIVERGENCE") {
		t.Error("divergence needs two simulations")
	}
}

func TestRendererToggles(t *testing.T) {
	r := NewRenderer(ThemeClassic, 100, 50)
	snaps := []sim.Snapshot{snapshot(t, chaos, 50)}

	r.Draw(snaps, input.VisualizationState{})
	bare := litCount(r.Canvas())

	r.Draw(snaps, input.VisualizationState{ShowPaths: true})
	if litCount(r.Canvas()) <= bare {
		t.Error("paths should add pixels")
	}

	r.Draw(snaps, input.VisualizationState{ShowVectors: true})
	if litCount(r.Canvas()) <= bare {
		t.Error("vectors should add pixels")
	}

	out := r.Draw(snaps, input.VisualizationState{ShowGraph: true})
	if !strings.Contains(out, "mean pairwise distance") {
		t.Error("graph toggle should draw the distance plot")
	}

	out = r.Draw(snaps, input.VisualizationState{})
	if strings.Contains(out, "mean pairwise distance") {
		t.Error("graph should be hidden")
	}
}

func TestRendererGraphNeedsTwoSamples(t *testing.T) {
	r := NewRenderer(ThemeClassic, 60, 30)
	out := r.Draw([]sim.Snapshot{snapshot(t, chaos, 0)}, input.VisualizationState{ShowGraph: true})
	if !strings.Contains(out, "collecting samples") {
		t.Error("a single sample should not be plotted")
	}
}

func TestRendererTwoSimulations(t *testing.T) {
	r := NewRenderer(ThemeClassic, 100, 50)
	a := snapshot(t, chaos, 20)
	b := snapshot(t, sim.Config{Distance: 400, Mass: 1000, G: 0.3999}, 20)

	out := r.Draw([]sim.Snapshot{a, b}, input.DefaultVisualizationState())
	for _, want := range []string{"SIMULATION 1", "SIMULATION 2", "DIVERGENCE", "rate/step"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}

	// the first simulation is drawn on top
	x, y, _ := r.project(a.Positions[0])
	if got := r.Canvas().Colors[y/4][x/2]; got != ThemeClassic.Bodies[0] {
		t.Errorf("top body colour = %s, want %s", got, ThemeClassic.Bodies[0])
	}
}

func TestRendererHaltedAndOffscreen(t *testing.T) {
	r := NewRenderer(ThemeClassic, 40, 20)
	snap := snapshot(t, chaos, 1)
	snap.Halted = true
	snap.Positions[0] = mgl64.Vec2{1e300, -1e300}
	snap.Trails[0] = append(snap.Trails[0], mgl64.Vec2{math.MaxFloat64, 0})

	out := r.Draw([]sim.Snapshot{snap}, input.VisualizationState{ShowPaths: true, ShowVectors: true})
	if !strings.Contains(out, "halted") {
		t.Error("halted simulation should be flagged")
	}
}

func TestRendererNoSimulation(t *testing.T) {
	r := NewRenderer(ThemeClassic, 40, 20)
	if out := r.Draw(nil, input.DefaultVisualizationState()); !strings.Contains(out, "no simulation") {
		t.Errorf("unexpected frame: %q", out)
	}
}

func TestRendererResize(t *testing.T) {
	r := NewRenderer(ThemeClassic, 40, 20)
	r.Resize(120, 40)
	if r.Canvas().Width != 120-statsWidth-4 || r.Canvas().Height != 37 {
		t.Errorf("canvas %dx%d after resize", r.Canvas().Width, r.Canvas().Height)
	}

	r.Resize(10, 5)
	if r.Canvas().Width != minCols || r.Canvas().Height != minRows {
		t.Errorf("canvas %dx%d below minimum", r.Canvas().Width, r.Canvas().Height)
	}
}

func TestSparklineAndSeparator(t *testing.T) {
	if got := utf8.RuneCountInString(Sparkline([]float64{1, 2, 3, 4}, 4)); got != 4 {
		t.Errorf("sparkline has %d runes", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("empty sparkline = %q", got)
	}
	if got := utf8.RuneCountInString(Separator(20)); got != 20 {
		t.Errorf("separator has %d runes", got)
	}
}

func TestFinite(t *testing.T) {
	got := finite([]float64{1, math.NaN(), math.Inf(1), 4})
	want := []float64{1, 1, 1, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("finite() = %v, want %v", got, want)
			break
		}
	}
}
