package config

import "sort"

var Presets = map[string]*Config{
	// 11 x 361 x 361 states, the full-resolution problem.
	"full":       DefaultConfig(),
	"coarse":     coarse(),
	"noisy":      noisy(),
	"discounted": discounted(),
	"tiny":       tiny(),
}

// coarse keeps the radial axis and samples the angles every 10 degrees.
func coarse() *Config {
	cfg := DefaultConfig()
	cfg.Grid.Theta.Step = 10
	cfg.Grid.Phi.Step = 10
	return cfg
}

func noisy() *Config {
	cfg := coarse()
	cfg.Noise = 0.2
	return cfg
}

func discounted() *Config {
	cfg := coarse()
	cfg.Noise = 0.1
	cfg.Gamma = 0.95
	cfg.Sweeps = 500
	cfg.Tolerance = 1e-6
	return cfg
}

// tiny is the 3 x 4 x 4 grid with angles {0, 90, 180, 270}.
func tiny() *Config {
	cfg := DefaultConfig()
	cfg.Grid.R = AxisConfig{Step: 1, Min: 0, Max: 2}
	cfg.Grid.Theta = AxisConfig{Step: 90, Min: 0, Max: 270}
	cfg.Grid.Phi = AxisConfig{Step: 90, Min: 0, Max: 270}
	cfg.Sweeps = 1
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
