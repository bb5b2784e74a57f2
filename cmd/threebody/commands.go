package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/threebody/internal/analysis"
	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/logging"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/san-kum/threebody/internal/viz"
	"github.com/spf13/cobra"
)

const sparklineWidth = 60

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(cfg.Simulations) == 0 {
		fmt.Fprintln(out, noSimulation)
		return nil
	}
	if steps < 1 {
		return fmt.Errorf("--steps must be positive, got %d", steps)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), logLevel)
	if err != nil {
		return err
	}

	group, err := sim.NewGroup(cfg.Simulations, cfg.SimOptions())
	if err != nil {
		return err
	}
	logger.Info("simulations created", "count", group.Len(), "dt", cfg.Dt, "steps", steps)

	var rec *storage.Recorder
	if saveRun {
		rec = storage.NewRecorder(every)
		for i, s := range group.Simulations() {
			rec.Track(i, s)
		}
	}

	tracker := analysis.NewTracker(steps)
	start := time.Now()
	for i := 0; i < steps; i++ {
		if err := group.Step(cfg.Dt); err != nil {
			if !sim.IsDegenerate(err) {
				return err
			}
			logger.Warn("simulation halted", "step", i+1, "err", err)
		}
		if group.Len() == 2 {
			tracker.Observe(positions(group.At(0)), positions(group.At(1)))
		}
	}
	logger.Debug("run finished", "elapsed", time.Since(start))

	snaps := group.Snapshots()
	meta := storage.RunMetadata{
		Timestamp:      time.Now(),
		Dt:             cfg.Dt,
		Steps:          steps,
		VelocityFactor: cfg.VelocityFactor,
		Spin:           cfg.Spin,
		Bounded:        cfg.Bounded,
		Simulations:    make([]storage.SimulationSummary, len(snaps)),
		Metrics:        map[string]float64{},
	}
	for i, snap := range snaps {
		meta.Simulations[i] = storage.Summarize(snap)
		meta.Metrics[fmt.Sprintf("mean_distance%d", i+1)] = meanOf(snap.Distances[:])
	}
	var divergence []float64
	if group.Len() == 2 {
		divergence = tracker.Series()
		meta.Metrics["divergence"] = tracker.Current()
		meta.Metrics["growth_rate"] = tracker.Rate(cfg.Dt)
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, rec)
		if err != nil {
			return err
		}
		meta.ID = id
		logger.Info("run saved", "id", id, "frames", rec.Len(), "dir", dataDir)
	}

	if jsonOut {
		return storage.WriteJSON(out, meta)
	}
	return printSummary(out, meta, divergence)
}

// positions returns a snapshot carrying only what divergence needs.
func positions(s *sim.Simulation) sim.Snapshot {
	return sim.Snapshot{
		Ticks:     s.Ticks(),
		Positions: s.Bodies().Positions(),
		Halted:    s.Halted(),
	}
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func printSummary(out io.Writer, meta storage.RunMetadata, divergence []float64) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIM\tDISTANCE\tMASS\tG\tTICKS\tENERGY\tDRIFT\tSTATUS")

	for i, s := range meta.Simulations {
		status := "running"
		if s.Halted {
			status = "halted"
		}
		fmt.Fprintf(w, "%d\t%g\t%g\t%g\t%d\t%.4g\t%.3e\t%s\n",
			i+1,
			s.Config.Distance,
			s.Config.Mass,
			s.Config.G,
			s.Ticks,
			s.Energy,
			s.EnergyDrift,
			status,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if d, ok := meta.Metrics["divergence"]; ok {
		fmt.Fprintf(out, "\ndivergence: %.4f\n", d)
		fmt.Fprintf(out, "growth rate: %.6f\n", meta.Metrics["growth_rate"])
		if len(divergence) > 1 {
			fmt.Fprintln(out, viz.Sparkline(divergence, sparklineWidth))
		}
	}
	if meta.ID != "" {
		fmt.Fprintf(out, "\nsaved run %s\n", meta.ID)
	}
	return nil
}

func formatSims(cfgs []sim.Config) string {
	parts := make([]string, len(cfgs))
	for i, c := range cfgs {
		parts[i] = fmt.Sprintf("%g/%g/%g", c.Distance, c.Mass, c.G)
	}
	return strings.Join(parts, ", ")
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tDT\tSIMULATIONS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			formatSims(configsOf(&run)),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	runs, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	series := make([][]float64, 0, len(runs))
	legends := make([]string, 0, len(runs))
	n := -1
	for i, frames := range runs {
		s := make([]float64, len(frames))
		for j, f := range frames {
			d := f.Bodies.Distances()
			s[j] = meanOf(d[:])
		}
		series = append(series, s)
		legends = append(legends, fmt.Sprintf("simulation %d", i+1))
		if n < 0 || len(s) < n {
			n = len(s)
		}
	}
	if n < 2 {
		return fmt.Errorf("run %s: not enough samples to plot", runID)
	}
	for i := range series {
		series[i] = series[i][:n]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "simulations: %s\n", formatSims(configsOf(meta)))
	fmt.Fprintf(out, "samples: %d\n\n", n)

	theme := viz.GetTheme(themeName)
	graph := asciigraph.PlotMany(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(theme.Graph[:min(len(series), len(theme.Graph))]...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("mean pairwise distance"),
	)
	fmt.Fprintln(out, graph)

	if len(runs) < 2 {
		return nil
	}

	div := make([]float64, n)
	for i := 0; i < n; i++ {
		a := sim.Snapshot{Positions: runs[0][i].Bodies.Positions()}
		b := sim.Snapshot{Positions: runs[1][i].Bodies.Positions()}
		div[i] = analysis.Divergence(a, b)
	}
	stride := runs[0][1].Tick - runs[0][0].Tick

	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(div,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(theme.Graph[0]),
		asciigraph.Caption("divergence"),
	))
	fmt.Fprintf(out, "\ngrowth rate: %.6f\n", analysis.GrowthRate(div, meta.Dt*float64(stride)))
	return nil
}

func configsOf(meta *storage.RunMetadata) []sim.Config {
	cfgs := make([]sim.Config, len(meta.Simulations))
	for i, s := range meta.Simulations {
		cfgs[i] = s.Config
	}
	return cfgs
}

func svgRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	runs, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	svg := export.TrajectorySVG(runs, viz.GetTheme(themeName), svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("run %s: nothing to draw at %dx%d", runID, svgWidth, svgHeight)
	}

	path := svgOut
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIMULATIONS (distance/mass/G)")

	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%s\n", name, formatSims(config.GetPreset(name).Simulations))
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if exportOut == "" {
		return storage.WriteJSON(cmd.OutOrStdout(), meta)
	}
	if err := storage.ExportJSON(exportOut, meta); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportOut)
	return nil
}
