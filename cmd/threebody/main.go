package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/logging"
	"github.com/san-kum/threebody/internal/runner"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir        string
	presetName     string
	configFile     string
	dt             float64
	fps            int
	stepsPerTick   int
	trailLength    int
	graphLength    int
	velocityFactor float64
	spin           float64
	bounded        bool
	themeName      string
	logFile        string
	logLevel       string
	simulation1    []float64
	simulation2    []float64

	steps     int
	saveRun   bool
	jsonOut   bool
	every     int
	svgOut    string
	svgWidth  int
	svgHeight int
	exportOut string
)

const noSimulation = "no simulation configured: pass --simulation1 <distance> <mass> <G> or --preset"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "threebody",
		Short: "Three-body gravity simulation in the terminal",
		Long: `threebody integrates three equal-mass bodies released from an equilateral
triangle and draws them in the terminal. A second simulation with slightly
different parameters can run alongside the first to show sensitivity to
initial conditions.

Keys: r reset, g graph, t paths, v vectors, q quit.`,
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".threebody", "data directory for recorded runs")
	pf.StringVar(&presetName, "preset", "", "start from a named preset (see 'threebody presets')")
	pf.StringVar(&configFile, "config", "", "yaml run file")
	pf.Float64Var(&dt, "dt", sim.DefaultDt, "simulation time per physics step")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	pf.IntVar(&stepsPerTick, "steps-per-tick", config.DefaultStepsPerTick, "physics steps per frame")
	pf.IntVar(&trailLength, "trail-length", sim.DefaultTrailLength, "stored positions per body")
	pf.IntVar(&graphLength, "graph-length", sim.DefaultGraphLength, "stored graph samples per simulation")
	pf.Float64Var(&velocityFactor, "velocity-factor", sim.DefaultVelocityFactor, "seed velocity towards the next body, as a fraction of their distance")
	pf.Float64Var(&spin, "spin", sim.DefaultSpin, "extra rigid rotation seed (1 = circular orbit of the triangle)")
	pf.BoolVar(&bounded, "bounded", false, "bounce bodies off the arena walls")
	pf.StringVar(&themeName, "theme", config.DefaultTheme, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.Float64SliceVar(&simulation1, "simulation1", nil, "first simulation: <distance> <mass> <G>")
	pf.Float64SliceVar(&simulation2, "simulation2", nil, "second simulation: <distance> <mass> <G>")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run simulations headless and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&steps, "steps", 1000, "physics steps to run")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "record the run to the data directory")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run metadata as JSON")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n-th step")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "Plot the mean pairwise distance of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "Export the trajectories of a recorded run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "Print or write the metadata of a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, svgCmd, exportCmd, presetsCmd)
	return rootCmd
}

// execute runs the CLI with args, after rewriting space-separated
// simulation triples into the comma form pflag understands.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(normalizeTripleFlags(args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

var tripleFlags = map[string]bool{
	"--simulation1": true,
	"--simulation2": true,
}

// normalizeTripleFlags turns "--simulation1 400 1000 0.4" into
// "--simulation1=400,1000,0.4". Negative numbers are accepted as values so
// that invalid configs reach validation instead of flag parsing.
func normalizeTripleFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return append(out, args[i:]...)
		}
		if !tripleFlags[a] {
			out = append(out, a)
			continue
		}

		var vals []string
		for j := i + 1; j < len(args) && len(vals) < 3; j++ {
			if _, err := strconv.ParseFloat(args[j], 64); err != nil {
				break
			}
			vals = append(vals, args[j])
		}
		if len(vals) == 0 {
			out = append(out, a)
			continue
		}
		out = append(out, a+"="+strings.Join(vals, ","))
		i += len(vals)
	}
	return out
}

func triple(name string, vals []float64) (sim.Config, error) {
	if len(vals) != 3 {
		return sim.Config{}, fmt.Errorf("--%s needs 3 values <distance> <mass> <G>, got %d", name, len(vals))
	}
	return sim.Config{Distance: vals[0], Mass: vals[1], G: vals[2]}, nil
}

// buildConfig layers defaults, preset, yaml file and flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if presetName != "" {
		cfg = config.GetPreset(presetName)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", presetName, strings.Join(config.ListPresets(), ", "))
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("steps-per-tick") {
		cfg.StepsPerTick = stepsPerTick
	}
	if flags.Changed("trail-length") {
		cfg.TrailLength = trailLength
	}
	if flags.Changed("graph-length") {
		cfg.GraphLength = graphLength
	}
	if flags.Changed("velocity-factor") {
		cfg.VelocityFactor = velocityFactor
	}
	if flags.Changed("spin") {
		cfg.Spin = spin
	}
	if flags.Changed("bounded") {
		cfg.Bounded = bounded
	}
	if flags.Changed("theme") {
		cfg.Theme = themeName
	}

	sim1, sim2 := flags.Changed("simulation1"), flags.Changed("simulation2")
	if sim2 && !sim1 {
		return nil, errors.New("--simulation2 requires --simulation1")
	}
	if sim1 {
		first, err := triple("simulation1", simulation1)
		if err != nil {
			return nil, err
		}
		cfg.Simulations = []sim.Config{first}
		if sim2 {
			second, err := triple("simulation2", simulation2)
			if err != nil {
				return nil, err
			}
			cfg.Simulations = append(cfg.Simulations, second)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(cfg.Simulations) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), noSimulation)
		return nil
	}

	logger := logging.Discard()
	if logFile != "" {
		l, closer, err := logging.NewFile(logFile, logLevel)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = l
	}

	group, err := sim.NewGroup(cfg.Simulations, cfg.SimOptions())
	if err != nil {
		return err
	}
	logger.Info("simulations created", "count", group.Len(), "dt", cfg.Dt, "velocity_factor", cfg.VelocityFactor, "spin", cfg.Spin, "bounded", cfg.Bounded)

	opts := runner.DefaultOptions()
	opts.Dt = cfg.Dt
	opts.StepsPerTick = cfg.StepsPerTick
	opts.FPS = cfg.FPS
	opts.View = cfg.View
	opts.Theme = viz.GetTheme(cfg.Theme)
	opts.Logger = logger

	err = runner.Run(cmd.Context(), group, opts)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
