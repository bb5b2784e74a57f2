package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/physics"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"valid", Config{Distance: 400, Mass: 1000, G: 0.4}, ""},
		{"zero distance", Config{Distance: 0, Mass: 1000, G: 0.4}, "distance"},
		{"negative mass", Config{Distance: 400, Mass: -5, G: 0.4}, "mass"},
		{"zero G", Config{Distance: 400, Mass: 1000, G: 0}, "gravitational constant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("field = %q, want %q", cerr.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("error does not wrap ErrInvalidConfig")
			}
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "distance", Value: -1}
	expected := "sim: invalid config: distance must be positive, got -1"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestRing(t *testing.T) {
	r := NewRing[int](3)
	if _, ok := r.Last(); ok {
		t.Error("empty ring should have no last element")
	}

	for i := 1; i <= 5; i++ {
		r.Push(i)
	}

	got := r.Slice()
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Slice() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice() = %v, want %v", got, want)
			break
		}
	}

	if last, _ := r.Last(); last != 5 {
		t.Errorf("Last() = %d, want 5", last)
	}

	got[0] = 99
	if r.Slice()[0] == 99 {
		t.Error("Slice did not return an independent copy")
	}

	r.Clear()
	if r.Len() != 0 || r.Cap() != 3 {
		t.Errorf("after Clear: len=%d cap=%d", r.Len(), r.Cap())
	}
}

func TestSimulationHaltsOnDegenerateState(t *testing.T) {
	s, err := New(Config{Distance: 400, Mass: 1000, G: 0.4}, DefaultOptions())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	s.bodies = physics.Bodies{
		{Pos: mgl64.Vec2{math.MaxFloat64, 0}, Mass: 1000},
		{Pos: mgl64.Vec2{-math.MaxFloat64, 0}, Mass: 1000},
		{Pos: mgl64.Vec2{0, 0}, Mass: 1000},
	}
	last := s.bodies.Positions()

	err = s.Step(1)
	if !IsDegenerate(err) {
		t.Fatalf("expected degenerate state, got %v", err)
	}
	if !s.Halted() {
		t.Fatal("simulation should be halted")
	}

	snap := s.State()
	if !snap.Halted || snap.Err == nil {
		t.Error("snapshot should report the halt")
	}
	if snap.Positions != last {
		t.Error("snapshot should keep the last valid positions")
	}

	if err := s.Step(1); !errors.Is(err, ErrHalted) {
		t.Errorf("expected ErrHalted, got %v", err)
	}
	if s.Ticks() != 0 {
		t.Errorf("halted simulation advanced to tick %d", s.Ticks())
	}

	s.Reset()
	if s.Halted() {
		t.Error("reset should clear the halt")
	}
	if err := s.Step(1); err != nil {
		t.Errorf("step after reset failed: %v", err)
	}
}

func TestGroupSkipsHaltedSimulation(t *testing.T) {
	c := Config{Distance: 400, Mass: 1000, G: 0.4}
	g, err := NewGroup([]Config{c, c}, DefaultOptions())
	if err != nil {
		t.Fatalf("new group failed: %v", err)
	}

	g.At(0).err = physics.ErrDegenerateState
	if err := g.Step(1); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	if g.At(0).Ticks() != 0 {
		t.Error("halted simulation should not advance")
	}
	if g.At(1).Ticks() != 1 {
		t.Error("running simulation should advance")
	}
}

type countingObserver struct {
	ticks []int
}

func (c *countingObserver) OnStep(tick int, _ physics.Bodies) {
	c.ticks = append(c.ticks, tick)
}

func TestSimulationObserver(t *testing.T) {
	s, err := New(Config{Distance: 400, Mass: 1000, G: 0.4}, DefaultOptions())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	obs := &countingObserver{}
	s.AddObserver(obs)

	for i := 0; i < 3; i++ {
		if err := s.Step(1); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}

	if len(obs.ticks) != 3 || obs.ticks[2] != 3 {
		t.Errorf("observer saw ticks %v", obs.ticks)
	}
}

func TestSimulationArena(t *testing.T) {
	opts := DefaultOptions()
	opts.VelocityFactor = 0
	opts.Arena = 100

	// at rest the bodies collapse, slingshot and leave the box
	s, err := New(Config{Distance: 150, Mass: 1000, G: 0.6}, opts)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	for i := 0; i < 2000; i++ {
		if err := s.Step(1); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		for j, p := range s.State().Positions {
			if math.Abs(p.X()) > 100 || math.Abs(p.Y()) > 100 {
				t.Fatalf("body %d left the arena at tick %d: %v", j, i, p)
			}
		}
	}
}

func TestInitialBodiesSeed(t *testing.T) {
	cfg := Config{Distance: 400, Mass: 1000, G: 0.4}

	bs := InitialBodies(cfg, DefaultOptions())
	want := [3]mgl64.Vec2{
		{1.2, 0},
		{-0.6, -0.6 * math.Sqrt(3)},
		{-0.6, 0.6 * math.Sqrt(3)},
	}
	for i, b := range bs {
		if !b.Vel.ApproxEqualThreshold(want[i], 1e-12) {
			t.Errorf("body %d seed %v, want %v", i+1, b.Vel, want[i])
		}
		next := bs[(i+1)%3].Pos
		if d := next.Sub(b.Pos).Mul(DefaultVelocityFactor); !b.Vel.ApproxEqualThreshold(d, 1e-12) {
			t.Errorf("body %d does not head for body %d", i+1, (i+1)%3+1)
		}
	}
	if p := physics.Momentum(bs); p.Len() > 1e-9 {
		t.Errorf("seed momentum %v", p)
	}

	rest := InitialBodies(cfg, Options{})
	for i, b := range rest {
		if b.Vel.Len() != 0 {
			t.Errorf("body %d should start at rest", i+1)
		}
	}
}

func TestInitialBodiesSpin(t *testing.T) {
	cfg := Config{Distance: 400, Mass: 1000, G: 0.4}

	spun := InitialBodies(cfg, Options{Spin: 1})
	omega := math.Sqrt(3 * cfg.G * cfg.Mass / math.Pow(cfg.Distance, 3))
	for i, b := range spun {
		want := omega * b.Pos.Len()
		if math.Abs(b.Vel.Len()-want) > 1e-12 {
			t.Errorf("body %d speed %v, want %v", i, b.Vel.Len(), want)
		}
		if math.Abs(b.Vel.Dot(b.Pos)) > 1e-9 {
			t.Errorf("body %d velocity not tangential", i)
		}
	}
}
