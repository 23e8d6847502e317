// Package config holds the engine tuning knobs and loads them from an
// optional YAML file with LAB_* environment overrides.
//
// Every cutoff the runner applies is a field here rather than a literal:
// the rare-tag suppression thresholds in particular are heuristics with
// no derivation behind their exact values, so deployments can adjust
// them without a code change.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Tuning collects the runner's thresholds.
type Tuning struct {
	// ThrottleWindow is how recently a cache entry must have been
	// computed for the runner to skip a recompute and serve it stale.
	// A rate limiter for rapid-fire mutation bursts, not a correctness
	// mechanism.
	ThrottleWindow time.Duration `koanf:"throttle_window"`

	// MinDatasetRows is the minimum valid rows a dataset needs before
	// any method runs; thinner datasets cache an empty findings slice.
	MinDatasetRows int `koanf:"min_dataset_rows"`

	// MinSampleSize drops findings backed by fewer samples.
	MinSampleSize int `koanf:"min_sample_size"`

	// MinEffect drops findings with a smaller absolute effect, except
	// for rate-scale methods.
	MinEffect float64 `koanf:"min_effect"`

	// RareTagMinShare suppresses daily findings for tags present on
	// less than this share of logs, once RareTagMinLogs logs exist.
	RareTagMinShare float64 `koanf:"rare_tag_min_share"`
	RareTagMinLogs  int     `koanf:"rare_tag_min_logs"`
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		ThrottleWindow:  time.Second,
		MinDatasetRows:  5,
		MinSampleSize:   6,
		MinEffect:       0.1,
		RareTagMinShare: 0.10,
		RareTagMinLogs:  10,
	}
}

// Load reads tuning from the given YAML file (missing file is fine),
// then overlays LAB_* environment variables (LAB_MIN_EFFECT -> min_effect).
func Load(path string) (Tuning, error) {
	k := koanf.New(".")
	tuning := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return tuning, fmt.Errorf("reading tuning %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return tuning, fmt.Errorf("accessing tuning %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("LAB_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LAB_"))
	}), nil); err != nil {
		return tuning, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &tuning); err != nil {
		return tuning, fmt.Errorf("unmarshalling tuning: %w", err)
	}
	if err := tuning.Validate(); err != nil {
		return tuning, err
	}
	return tuning, nil
}

// Validate rejects nonsensical thresholds.
func (t Tuning) Validate() error {
	if t.ThrottleWindow < 0 {
		return fmt.Errorf("throttle_window must not be negative")
	}
	if t.MinDatasetRows < 0 || t.MinSampleSize < 0 || t.RareTagMinLogs < 0 {
		return fmt.Errorf("row/sample thresholds must not be negative")
	}
	if t.MinEffect < 0 {
		return fmt.Errorf("min_effect must not be negative")
	}
	if t.RareTagMinShare < 0 || t.RareTagMinShare > 1 {
		return fmt.Errorf("rare_tag_min_share must be within [0,1]")
	}
	return nil
}
