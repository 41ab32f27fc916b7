// Package config holds the engine's tuning constants: the expected-goal
// multiplier tables, detector windows, clustering parameters, and batch
// settings. One structure is built here and injected at construction so the
// same numbers are never duplicated across the classifier and detectors.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment overrides: NHLMETRICS_WORKERS → workers.
const envPrefix = "NHLMETRICS_"

// Weights parameterizes the deterministic expected-goal scorer.
type Weights struct {
	// Distance buckets: attempts at most Dist feet out score Base.
	DistanceBuckets []DistanceBucket `koanf:"distance_buckets"`
	// BaseLong applies beyond the last bucket.
	BaseLong float64 `koanf:"base_long"`

	ZoneHighDanger   float64 `koanf:"zone_high_danger"`
	ZoneGoodPosition float64 `koanf:"zone_good_position"`
	ZoneOffensive    float64 `koanf:"zone_offensive"`
	ZoneNeutral      float64 `koanf:"zone_neutral"`
	ZoneDefensive    float64 `koanf:"zone_defensive"`

	// ShotType maps feed shot-type strings to multipliers; unknown types get 1.0.
	ShotType map[string]float64 `koanf:"shot_type"`

	OutcomeMissed  float64 `koanf:"outcome_missed"`
	OutcomeBlocked float64 `koanf:"outcome_blocked"`

	// AngleTiers maps the bearing off the rink's long axis to a multiplier:
	// the first tier whose MinDeg the bearing exceeds wins, so entries must
	// be ordered by descending MinDeg. Bearings at or below the last tier
	// score 1.0.
	AngleTiers []AngleTier `koanf:"angle_tiers"`

	Cap float64 `koanf:"cap"`
}

// DistanceBucket is one row of the base-value table.
type DistanceBucket struct {
	Dist float64 `koanf:"dist"`
	Base float64 `koanf:"base"`
}

// AngleTier is one row of the angle-multiplier table.
type AngleTier struct {
	MinDeg float64 `koanf:"min_deg"`
	Mult   float64 `koanf:"mult"`
}

// Detect holds the pattern-detector windows, in seconds unless noted.
type Detect struct {
	RushWindow    int `koanf:"rush_window"`
	ReboundWindow int `koanf:"rebound_window"`
	CycleHold     int `koanf:"cycle_hold"`

	// Zone-entry classification over tracking frames.
	EntryProximityFt float64 `koanf:"entry_proximity_ft"`
	EntryWindow      int     `koanf:"entry_window"` // frames

	// CenterAngleDeg is the goalie angle-tier boundary.
	CenterAngleDeg float64 `koanf:"center_angle_deg"`
}

// Cluster holds DBSCAN parameters for goal-route discovery.
type Cluster struct {
	Eps            float64 `koanf:"eps"`
	MinSamples     int     `koanf:"min_samples"`
	CurvatureScale float64 `koanf:"curvature_scale"`
}

// Config is the full tuning structure for one engine instance.
type Config struct {
	Workers         int `koanf:"workers"`
	CheckpointEvery int `koanf:"checkpoint_every"`

	FetchTimeoutMS     int `koanf:"fetch_timeout_ms"`
	FetchRetries       int `koanf:"fetch_retries"`
	TrackingIntervalMS int `koanf:"tracking_interval_ms"`

	Weights Weights `koanf:"weights"`
	Detect  Detect  `koanf:"detect"`
	Cluster Cluster `koanf:"cluster"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Workers:            4,
		CheckpointEvery:    10,
		FetchTimeoutMS:     15000,
		FetchRetries:       3,
		TrackingIntervalMS: 500,
		Weights: Weights{
			DistanceBuckets: []DistanceBucket{
				{Dist: 10, Base: 0.25},
				{Dist: 20, Base: 0.15},
				{Dist: 35, Base: 0.08},
				{Dist: 50, Base: 0.04},
			},
			BaseLong:         0.02,
			ZoneHighDanger:   1.5,
			ZoneGoodPosition: 1.2,
			ZoneOffensive:    0.8,
			ZoneNeutral:      0.3,
			ZoneDefensive:    0.1,
			ShotType: map[string]float64{
				"tip-in":      1.3,
				"deflected":   1.3,
				"backhand":    1.3,
				"wrist":       1.0,
				"snap":        1.0,
				"slap":        0.9,
				"wrap-around": 1.1,
				"one-timer":   1.2,
			},
			OutcomeMissed:  0.7,
			OutcomeBlocked: 0.5,
			AngleTiers: []AngleTier{
				{MinDeg: 45, Mult: 0.3},
				{MinDeg: 30, Mult: 0.5},
				{MinDeg: 15, Mult: 0.8},
			},
			Cap: 0.95,
		},
		Detect: Detect{
			RushWindow:       6,
			ReboundWindow:    3,
			CycleHold:        10,
			EntryProximityFt: 10,
			EntryWindow:      40,
			CenterAngleDeg:   35,
		},
		Cluster: Cluster{
			Eps:            12,
			MinSamples:     3,
			CurvatureScale: 20,
		},
	}
}

// Load layers an optional YAML file and NHLMETRICS_* environment variables
// over the defaults. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, cfg.validate()
}

// envKey maps NHLMETRICS_FETCH_RETRIES to fetch_retries. Nested keys use a
// double underscore: NHLMETRICS_DETECT__RUSH_WINDOW → detect.rush_window.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.CheckpointEvery < 1 {
		return fmt.Errorf("checkpoint_every must be >= 1, got %d", c.CheckpointEvery)
	}
	if c.Weights.Cap <= 0 || c.Weights.Cap > 1 {
		return fmt.Errorf("weights cap must be in (0,1], got %g", c.Weights.Cap)
	}
	if len(c.Weights.DistanceBuckets) == 0 {
		return fmt.Errorf("weights distance_buckets must not be empty")
	}
	return nil
}
