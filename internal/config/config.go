// Package config decodes the planner's optional TOML tuning file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gitrdm/gokanlogic-planner/pkg/planner"
)

// Solver holds the tunable knobs referenced by SPEC_FULL.md §2: the
// heuristic weight used by ModeWeightedMissingLiterals, the default
// heuristic mode, and the inner relaxed-search step bound. Every field has
// a sane default so an absent or partial config file still produces a
// usable Solver.
type Solver struct {
	DefaultMode      int `toml:"default_mode"`
	Weight           int `toml:"weight"`
	RelaxedStepBound int `toml:"relaxed_step_bound"`
}

// Default returns the Solver configuration used when no file is supplied.
func Default() Solver {
	return Solver{
		DefaultMode:      int(planner.ModeWeightedMissingLiterals),
		Weight:           planner.DefaultWeight,
		RelaxedStepBound: planner.DefaultRelaxedStepBound,
	}
}

// Load reads and decodes a planner.toml-style file at path, starting from
// Default() so any field the file omits keeps its default value. A missing
// path is not an error: Load returns Default() unchanged, matching the
// "optional settings file, hard defaults otherwise" pattern used for TOML
// tuning files elsewhere in the retrieved pack.
func Load(path string) (Solver, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Solver{}, err
	}
	return cfg, nil
}
