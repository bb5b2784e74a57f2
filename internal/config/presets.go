package config

import (
	"sort"

	"github.com/san-kum/threebody/internal/sim"
)

// Presets are named starting points for the simulations list.
var Presets = map[string][]sim.Config{
	"default": {
		{Distance: 333.33, Mass: 1000, G: 0.6},
	},
	"chaos": {
		{Distance: 400, Mass: 1000, G: 0.4},
		{Distance: 400, Mass: 1000, G: 0.3999},
	},
	"tight": {
		{Distance: 200, Mass: 1000, G: 0.6},
	},
	"heavy": {
		{Distance: 400, Mass: 5000, G: 0.4},
	},
}

// GetPreset returns the defaults with the named preset's simulations, or
// nil if there is no such preset.
func GetPreset(name string) *Config {
	sims, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Simulations = append([]sim.Config(nil), sims...)
	return cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
