// Package config defines the simulation parameters, their defaults, YAML
// loading and validation. A Config is built once and passed to every
// component constructor; nothing in the module reads process-wide settings.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full simulation configuration.
type Config struct {
	// Snapshot is the listchannels JSON file; empty means a synthetic network.
	Snapshot string `yaml:"snapshot"`

	Rank       RankConfig       `yaml:"rank"`
	Bloom      BloomConfig      `yaml:"bloom"`
	Landmark   LandmarkConfig   `yaml:"landmark"`
	Network    NetworkConfig    `yaml:"network"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// RankConfig selects the rank relaxation rule and candidate width.
type RankConfig struct {
	Mode          string `yaml:"mode" validate:"oneof=hop fee random"`
	MaxWeight     int64  `yaml:"max_weight" validate:"min=1"`
	MaxCandidates int    `yaml:"max_candidates" validate:"min=0"`
}

// BloomConfig sizes the candidate filter.
type BloomConfig struct {
	ExpectedItems     uint    `yaml:"expected_items" validate:"min=1"`
	FalsePositiveRate float64 `yaml:"false_positive_rate" validate:"gt=0,lt=1"`
}

// LandmarkConfig configures the embedding router.
type LandmarkConfig struct {
	Trees int `yaml:"trees" validate:"min=1"`
}

// NetworkConfig covers channel construction and pre-run perturbation.
type NetworkConfig struct {
	SplitRatio      float64 `yaml:"split_ratio" validate:"gte=0,lte=1"`
	OfflineFraction float64 `yaml:"offline_fraction" validate:"gte=0,lte=1"`

	SaturationFraction float64 `yaml:"saturation_fraction" validate:"gte=0,lte=1"`
	SaturationMode     string  `yaml:"saturation_mode" validate:"oneof=random per_node ranked"`
	// RankingFile lists channels for ranked saturation, one CSV row each.
	RankingFile string `yaml:"ranking_file" validate:"required_if=SaturationMode ranked"`
}

// SimulationConfig drives payment sampling.
type SimulationConfig struct {
	Payments    int   `yaml:"payments" validate:"min=1"`
	MinPayment  int64 `yaml:"min_payment" validate:"min=1"`
	MaxPayment  int64 `yaml:"max_payment" validate:"min=1"`
	MaxResample int   `yaml:"max_resample" validate:"min=1"`

	Seeds Seeds `yaml:"seeds"`
}

// Seeds holds one seed per random stream so each can be varied alone.
type Seeds struct {
	Offline    int64 `yaml:"offline"`
	Saturation int64 `yaml:"saturation"`
	Payments   int64 `yaml:"payments"`
	Routing    int64 `yaml:"routing"`
}

// Default returns the reference parameters.
func Default() Config {
	return Config{
		Rank: RankConfig{
			Mode:          "hop",
			MaxWeight:     10,
			MaxCandidates: 3000,
		},
		Bloom: BloomConfig{
			ExpectedItems:     100000,
			FalsePositiveRate: 1e-7,
		},
		Landmark: LandmarkConfig{Trees: 1},
		Network: NetworkConfig{
			SplitRatio:     0.5,
			SaturationMode: "random",
		},
		Simulation: SimulationConfig{
			Payments:    50000,
			MinPayment:  100,
			MaxPayment:  1000,
			MaxResample: 10000,
			Seeds: Seeds{
				Offline:    42,
				Saturation: 49,
				Payments:   88,
				Routing:    1,
			},
		},
	}
}

var validate = validator.New()

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Simulation.MinPayment > c.Simulation.MaxPayment {
		return fmt.Errorf("%w: min_payment %d > max_payment %d",
			ErrInvalid, c.Simulation.MinPayment, c.Simulation.MaxPayment)
	}
	return nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, cfg.Validate()
}

// Load reads path with Parse. An empty path yields the validated defaults.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal renders cfg as YAML, e.g. to record the parameters of a run.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
