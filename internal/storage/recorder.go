package storage

import (
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

// Frame is the state of one simulation at one tick.
type Frame struct {
	Sim    int
	Tick   int
	Bodies physics.Bodies
}

// Recorder collects frames from one or more simulations. Every frame is
// kept; Every > 1 keeps only ticks divisible by it.
type Recorder struct {
	Every  int
	frames []Frame
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

// Track records the current state of s as simulation index i and
// subscribes to its future steps.
func (r *Recorder) Track(i int, s *sim.Simulation) {
	r.add(i, s.Ticks(), s.Bodies())
	s.AddObserver(observer{rec: r, sim: i})
}

func (r *Recorder) add(i, tick int, bodies physics.Bodies) {
	if tick%r.Every != 0 {
		return
	}
	r.frames = append(r.frames, Frame{Sim: i, Tick: tick, Bodies: bodies})
}

func (r *Recorder) Frames() []Frame { return r.frames }

func (r *Recorder) Len() int { return len(r.frames) }

type observer struct {
	rec *Recorder
	sim int
}

func (o observer) OnStep(tick int, bodies physics.Bodies) {
	o.rec.add(o.sim, tick, bodies)
}
