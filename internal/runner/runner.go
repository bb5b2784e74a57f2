// Package runner drives one or two simulations in a fixed-rate terminal
// loop: input, reset if requested, step, draw.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/san-kum/threebody/internal/input"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/viz"
)

const (
	DefaultFPS          = 60
	DefaultStepsPerTick = 1

	defaultWidth  = 120
	defaultHeight = 40
)

// Phase is the lifecycle state of a Model.
type Phase int

const (
	Idle Phase = iota
	Running
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Options struct {
	Dt           float64
	StepsPerTick int
	FPS          int
	View         input.VisualizationState
	Theme        viz.Theme
	Logger       *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Dt:           sim.DefaultDt,
		StepsPerTick: DefaultStepsPerTick,
		FPS:          DefaultFPS,
		View:         input.DefaultVisualizationState(),
		Theme:        viz.ThemeClassic,
	}
}

type tickMsg time.Time

// Model is the bubbletea model of an interactive run. Simulation state is
// only touched from Update.
type Model struct {
	group    *sim.Group
	renderer *viz.Renderer
	vis      input.VisualizationState
	opts     Options
	logger   *log.Logger

	phase        Phase
	pendingReset bool
	ticks        int
}

// New returns an Idle model. The first tick moves it to Running.
func New(group *sim.Group, opts Options) Model {
	if opts.Dt <= 0 {
		opts.Dt = sim.DefaultDt
	}
	if opts.StepsPerTick < 1 {
		opts.StepsPerTick = DefaultStepsPerTick
	}
	if opts.FPS < 1 {
		opts.FPS = DefaultFPS
	}
	if opts.Theme.Name == "" {
		opts.Theme = viz.ThemeClassic
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		group:    group,
		renderer: viz.NewRenderer(opts.Theme, defaultWidth, defaultHeight),
		vis:      opts.View,
		opts:     opts,
		logger:   logger,
		phase:    Idle,
	}
}

func (m Model) Phase() Phase                            { return m.phase }
func (m Model) Visualization() input.VisualizationState { return m.vis }

// Ticks returns the number of frames that stepped the simulations.
func (m Model) Ticks() int { return m.ticks }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulations.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase == Terminated {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.phase = Terminated
			m.logger.Info("quit", "ticks", m.ticks)
			return m, tea.Quit
		}

		var sig input.Signal
		m.vis, sig = input.HandleKey(msg.String(), m.vis)
		if sig == input.SignalReset {
			m.pendingReset = true
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.renderer.Resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		if m.phase == Idle {
			m.phase = Running
			m.logger.Debug("loop started", "fps", m.opts.FPS, "simulations", m.group.Len())
		}
		m.advance()
		return m, m.tick()
	}

	return m, nil
}

// advance runs one frame of the loop: reset if requested, then step.
func (m *Model) advance() {
	if m.pendingReset {
		m.group.Reset()
		m.pendingReset = false
		m.logger.Info("reset", "ticks", m.ticks)
	}

	for i := 0; i < m.opts.StepsPerTick; i++ {
		if err := m.group.Step(m.opts.Dt); err != nil {
			logStepError(m.logger, err, "tick", m.ticks+1)
		}
	}
	m.ticks++
}

// logStepError logs a degenerate-state halt as a warning and anything else
// as an error.
func logStepError(logger *log.Logger, err error, keyvals ...any) {
	keyvals = append(keyvals, "err", err)
	if sim.IsDegenerate(err) {
		logger.Warn("simulation halted", keyvals...)
		return
	}
	logger.Error("step failed", keyvals...)
}

// View renders the current frame.
func (m Model) View() string {
	if m.phase == Terminated {
		return ""
	}
	return m.renderer.Draw(m.group.Snapshots(), m.vis)
}

// Run starts the interactive loop and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, group *sim.Group, opts Options, progOpts ...tea.ProgramOption) error {
	m := New(group, opts)
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, progOpts...)

	_, err := tea.NewProgram(m, progOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
