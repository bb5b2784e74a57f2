package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// ErrNoTrajectory is returned when a run directory has no usable frames.
var ErrNoTrajectory = errors.New("storage: run has no trajectory")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// SimulationSummary describes one simulation of a recorded run.
type SimulationSummary struct {
	Config      sim.Config `json:"config"`
	Ticks       int        `json:"ticks"`
	Energy      float64    `json:"energy"`
	EnergyDrift float64    `json:"energy_drift"`
	Halted      bool       `json:"halted"`
	Error       string     `json:"error,omitempty"`
}

type RunMetadata struct {
	ID             string              `json:"id"`
	Timestamp      time.Time           `json:"timestamp"`
	Dt             float64             `json:"dt"`
	Steps          int                 `json:"steps"`
	VelocityFactor float64             `json:"velocity_factor"`
	Spin           float64             `json:"spin"`
	Bounded        bool                `json:"bounded"`
	Simulations    []SimulationSummary `json:"simulations"`
	Metrics        map[string]float64  `json:"metrics"`
}

// Summarize builds the summary of a simulation's current state.
func Summarize(snap sim.Snapshot) SimulationSummary {
	sum := SimulationSummary{
		Config:      snap.Config,
		Ticks:       snap.Ticks,
		Energy:      snap.Energy,
		EnergyDrift: snap.EnergyDrift,
		Halted:      snap.Halted,
	}
	if snap.Err != nil {
		sum.Error = snap.Err.Error()
	}
	if !isFinite(sum.Energy) || !isFinite(sum.EnergyDrift) {
		sum.Energy, sum.EnergyDrift = 0, 0
	}
	return sum
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Save writes meta and the recorded frames to a new run directory and
// returns the run ID. An empty meta.ID is generated from the clock.
func (s *Store) Save(meta RunMetadata, rec *Recorder) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	// encoding/json rejects NaN and Inf
	for k, v := range meta.Metrics {
		if !isFinite(v) {
			delete(meta.Metrics, k)
		}
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header()); err != nil {
		return "", err
	}

	for _, f := range rec.Frames() {
		row := []string{strconv.Itoa(f.Sim), strconv.Itoa(f.Tick)}
		for _, b := range f.Bodies {
			row = append(row,
				strconv.FormatFloat(b.Pos.X(), 'f', 6, 64),
				strconv.FormatFloat(b.Pos.Y(), 'f', 6, 64),
				strconv.FormatFloat(b.Vel.X(), 'f', 6, 64),
				strconv.FormatFloat(b.Vel.Y(), 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func header() []string {
	h := []string{"sim", "tick"}
	for i := 1; i <= physics.Count; i++ {
		h = append(h,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i),
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i))
	}
	return h
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads the frames of a run grouped by simulation, in tick
// order. Body masses come from the run metadata. Malformed rows are
// skipped.
func (s *Store) LoadTrajectory(runID string) ([][]Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([][]Frame, len(meta.Simulations))
	for i := 1; i < len(records); i++ {
		f, ok := parseRow(records[i])
		if !ok || f.Sim < 0 || f.Sim >= len(out) {
			continue
		}
		for j := range f.Bodies {
			f.Bodies[j].Mass = meta.Simulations[f.Sim].Config.Mass
		}
		out[f.Sim] = append(out[f.Sim], f)
	}

	for _, frames := range out {
		if len(frames) > 0 {
			return out, nil
		}
	}
	return nil, fmt.Errorf("run %s: %w", runID, ErrNoTrajectory)
}

func parseRow(record []string) (Frame, bool) {
	if len(record) != 2+4*physics.Count {
		return Frame{}, false
	}

	simIdx, err := strconv.Atoi(record[0])
	if err != nil {
		return Frame{}, false
	}
	tick, err := strconv.Atoi(record[1])
	if err != nil {
		return Frame{}, false
	}

	vals := make([]float64, 0, 4*physics.Count)
	for _, field := range record[2:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Frame{}, false
		}
		vals = append(vals, v)
	}

	f := Frame{Sim: simIdx, Tick: tick}
	for i := range f.Bodies {
		v := vals[4*i:]
		f.Bodies[i].Pos = mgl64.Vec2{v[0], v[1]}
		f.Bodies[i].Vel = mgl64.Vec2{v[2], v[3]}
	}
	return f, true
}
