package analysis

import (
	"math"

	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

// Divergence returns the mean distance between corresponding bodies of two
// snapshots.
func Divergence(a, b sim.Snapshot) float64 {
	sum := 0.0
	for i := 0; i < physics.Count; i++ {
		sum += a.Positions[i].Sub(b.Positions[i]).Len()
	}
	return sum / physics.Count
}

// DivergenceSeries rebuilds the per-step divergence from the trails of two
// snapshots taken at the same tick. Trails are aligned from their newest
// end; nil is returned when the snapshots are at different ticks.
func DivergenceSeries(a, b sim.Snapshot) []float64 {
	if a.Ticks != b.Ticks {
		return nil
	}

	n := len(a.Trails[0])
	for i := 0; i < physics.Count; i++ {
		n = min(n, len(a.Trails[i]), len(b.Trails[i]))
	}

	out := make([]float64, n)
	for k := 0; k < n; k++ {
		sum := 0.0
		for i := 0; i < physics.Count; i++ {
			pa := a.Trails[i][len(a.Trails[i])-n+k]
			pb := b.Trails[i][len(b.Trails[i])-n+k]
			sum += pa.Sub(pb).Len()
		}
		out[k] = sum / physics.Count
	}
	return out
}

// GrowthRate estimates λ in d(t) ≈ d0·exp(λt) by a least-squares fit of
// ln d against time. Samples are dt apart; non-positive or non-finite
// samples are skipped. It returns 0 when fewer than two samples remain.
func GrowthRate(series []float64, dt float64) float64 {
	if dt <= 0 {
		return 0
	}

	var n, sumT, sumY, sumTT, sumTY float64
	for i, d := range series {
		if !(d > 0) || math.IsInf(d, 0) {
			continue
		}
		t := float64(i) * dt
		y := math.Log(d)
		n++
		sumT += t
		sumY += y
		sumTT += t * t
		sumTY += t * y
	}

	if n < 2 {
		return 0
	}

	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return 0
	}
	return (n*sumTY - sumT*sumY) / denom
}

// Tracker keeps the most recent divergence samples of a pair of
// simulations.
type Tracker struct {
	series *sim.Ring[float64]
}

func NewTracker(window int) *Tracker {
	return &Tracker{series: sim.NewRing[float64](window)}
}

// Observe records the divergence of a and b. Pairs where either side has
// halted are ignored.
func (t *Tracker) Observe(a, b sim.Snapshot) {
	if a.Halted || b.Halted {
		return
	}
	t.series.Push(Divergence(a, b))
}

// Current returns the latest divergence, or 0 before any observation.
func (t *Tracker) Current() float64 {
	d, _ := t.series.Last()
	return d
}

// Rate returns the growth rate over the window for samples dt apart.
func (t *Tracker) Rate(dt float64) float64 {
	return GrowthRate(t.series.Slice(), dt)
}

// Series returns the stored samples, oldest first.
func (t *Tracker) Series() []float64 { return t.series.Slice() }
