// Package input maps key presses to visualization toggles and the reset
// signal.
package input

import "strings"

// VisualizationState holds the three overlay toggles. It is owned by the
// runner and survives simulation resets.
type VisualizationState struct {
	ShowGraph   bool `yaml:"show_graph" json:"show_graph"`
	ShowPaths   bool `yaml:"show_paths" json:"show_paths"`
	ShowVectors bool `yaml:"show_vectors" json:"show_vectors"`
}

// DefaultVisualizationState shows paths only.
func DefaultVisualizationState() VisualizationState {
	return VisualizationState{ShowPaths: true}
}

// Signal is a request HandleKey passes back to the runner.
type Signal int

const (
	SignalNone Signal = iota
	SignalReset
)

func (s Signal) String() string {
	switch s {
	case SignalReset:
		return "reset"
	default:
		return "none"
	}
}

// Key bindings, matched case-insensitively.
const (
	KeyReset   = "r"
	KeyGraph   = "g"
	KeyPaths   = "t"
	KeyVectors = "v"
)

// HandleKey applies key to st. Unbound keys leave st unchanged and return
// SignalNone.
func HandleKey(key string, st VisualizationState) (VisualizationState, Signal) {
	switch strings.ToLower(key) {
	case KeyReset:
		return st, SignalReset
	case KeyGraph:
		st.ShowGraph = !st.ShowGraph
	case KeyPaths:
		st.ShowPaths = !st.ShowPaths
	case KeyVectors:
		st.ShowVectors = !st.ShowVectors
	}
	return st, SignalNone
}

// Help is the one-line key reference shown under the canvas.
func Help() string {
	return "r reset  g graph  t paths  v vectors  q quit"
}
