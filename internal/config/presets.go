package config

import (
	"sort"

	"github.com/san-kum/conflictsim/internal/model"
)

// Presets build named scenarios. Each call returns a fresh Config.
var Presets = map[string]func() *Config{
	"baseline": DefaultConfig,
	"monte-carlo": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "monte-carlo"
		cfg.MonteCarlo.Trials = 25000
		return cfg
	},
	"high-aid": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "high-aid"
		cfg.ActorB.ForeignAid = model.Constant(0.36)
		return cfg
	},
	"heavy-sanctions": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "heavy-sanctions"
		cfg.ActorA.Sanctions = model.SanctionsRamp(0.21)
		return cfg
	},
	"unclamped": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "unclamped"
		cfg.ClampStocks = false
		return cfg
	},
	"short": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "short"
		cfg.Horizon = 720
		cfg.MonteCarlo.Trials = 100
		cfg.MonteCarlo.KeepHistories = true
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
