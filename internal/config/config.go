// Package config loads the simulation configuration from an optional
// YAML file. Every section has sane defaults; a missing file just means
// defaults all the way down.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/wildmind/internal/knowledge"
	"github.com/talgya/wildmind/internal/planner"
	"github.com/talgya/wildmind/internal/world"
)

// Config is the full tree of tunables for one simulation run.
type Config struct {
	World         world.Config                  `yaml:"world"`
	Decay         knowledge.DecayConfig         `yaml:"decay"`
	Consolidation knowledge.ConsolidationConfig `yaml:"consolidation"`
	Planner       planner.Config                `yaml:"planner"`
	Sim           SimConfig                     `yaml:"sim"`
}

// SimConfig covers the runner and service surface.
type SimConfig struct {
	Creatures           int     `yaml:"creatures"`
	SecondsPerTick      float64 `yaml:"seconds_per_tick"`
	TickMillis          int     `yaml:"tick_millis"`
	DecayInterval       uint64  `yaml:"decay_interval"`
	ConsolidateInterval uint64  `yaml:"consolidate_interval"`
	HysteresisBonus     float64 `yaml:"hysteresis_bonus"`
	APIPort             int     `yaml:"api_port"`
	DBPath              string  `yaml:"db_path"`
}

func Default() Config {
	return Config{
		World:         world.DefaultConfig(),
		Decay:         knowledge.DefaultDecayConfig(),
		Consolidation: knowledge.DefaultConsolidationConfig(),
		Planner:       planner.DefaultConfig(),
		Sim: SimConfig{
			Creatures:           12,
			SecondsPerTick:      1,
			TickMillis:          250,
			DecayInterval:       60,
			ConsolidateInterval: 120,
			HysteresisBonus:     10,
			APIPort:             8080,
			DBPath:              "data/wildmind.db",
		},
	}
}

// Load reads the config file over the defaults. An empty path or a
// missing file returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
