package experiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidConfig is returned when a Config cannot describe a run
var ErrInvalidConfig = errors.New("invalid config")

// Algorithm names a Monte Carlo algorithm which can be run by an
// experiment
type Algorithm string

// Algorithms available for configuration
const (
	ExploringStarts Algorithm = "exploring-starts"
	OnPolicy        Algorithm = "on-policy"
	EvaluateQ       Algorithm = "evaluate-q"
	EvaluateV       Algorithm = "evaluate-v"
)

// Defaults used by DefaultConfig
const (
	DefaultHorizon         = 10_000
	DefaultImproveEpisodes = 1_000
)

// Algorithms returns all configurable algorithms
func Algorithms() []Algorithm {
	return []Algorithm{ExploringStarts, OnPolicy, EvaluateQ, EvaluateV}
}

// Config represents a configuration of a single run of a Monte Carlo
// algorithm on a race track. Configs are JSON serializable.
type Config struct {
	// Track is the path to the CSV track file
	Track     string
	Algorithm Algorithm

	// Episodes is the episode or iteration budget of the algorithm
	Episodes int

	// Epsilon and FinalEpsilon give the exploration rate of the on-policy
	// algorithm, which decays linearly from Epsilon to FinalEpsilon. A
	// negative FinalEpsilon keeps the exploration rate constant.
	Epsilon      float64
	FinalEpsilon float64

	// Alpha is the constant step size of the on-policy algorithm. If
	// zero, sample averages are used.
	Alpha float64

	// ExploringStarts takes a random first action in each episode of
	// the on-policy algorithm
	ExploringStarts bool

	Seed uint64

	// Horizon ends any episode still running after Horizon steps, which
	// then counts as a finished episode. If zero, episodes end only at
	// the finish line.
	Horizon int

	// StepLimit fails any episode longer than StepLimit steps. If zero,
	// episodes are unlimited.
	StepLimit int

	// ImproveEpisodes is the number of episodes of on-policy control
	// used to find the policy evaluated by the evaluation algorithms,
	// which evaluate its greedy policy. If zero, the policy taking
	// action 0 everywhere is evaluated.
	ImproveEpisodes int

	// DemoSteps limits the length of the demonstration race run with
	// the learned policy. If zero, no race is run.
	DemoSteps int

	// DataDir is the directory in which per-episode returns and
	// lengths are saved. If empty, no data is saved.
	DataDir string
}

// DefaultConfig returns the default configuration: on-policy control
// on the given track
func DefaultConfig(track string) Config {
	return Config{
		Track:           track,
		Algorithm:       OnPolicy,
		Episodes:        10_000,
		Epsilon:         0.1,
		FinalEpsilon:    -1,
		Alpha:           0.1,
		Seed:            1,
		Horizon:         DefaultHorizon,
		ImproveEpisodes: DefaultImproveEpisodes,
		DemoSteps:       1_000,
	}
}

// Bounded reports whether every episode of a follows an ε-soft policy,
// which reaches the finish line with probability 1. The deterministic
// policies of the other algorithms may stop the car for good.
func (a Algorithm) Bounded() bool {
	return a == OnPolicy
}

// Validate checks that c describes a run
func (c Config) Validate() error {
	if c.Track == "" {
		return fmt.Errorf("validate: %w: no track file", ErrInvalidConfig)
	}

	known := false
	for _, a := range Algorithms() {
		known = known || a == c.Algorithm
	}
	if !known {
		return fmt.Errorf("validate: %w: unknown algorithm %q",
			ErrInvalidConfig, c.Algorithm)
	}

	if c.Episodes <= 0 {
		return fmt.Errorf("validate: %w: episodes must be positive but "+
			"got %d", ErrInvalidConfig, c.Episodes)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: %w: epsilon %v not in [0, 1]",
			ErrInvalidConfig, c.Epsilon)
	}
	if c.FinalEpsilon > 1 {
		return fmt.Errorf("validate: %w: final epsilon %v greater than 1",
			ErrInvalidConfig, c.FinalEpsilon)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("validate: %w: alpha %v not in [0, 1]",
			ErrInvalidConfig, c.Alpha)
	}
	if c.Horizon < 0 || c.StepLimit < 0 || c.ImproveEpisodes < 0 ||
		c.DemoSteps < 0 {
		return fmt.Errorf("validate: %w: negative step or iteration count",
			ErrInvalidConfig)
	}
	if !c.Algorithm.Bounded() && c.Horizon == 0 && c.StepLimit == 0 {
		return fmt.Errorf("validate: %w: %v needs a horizon or step limit",
			ErrInvalidConfig, c.Algorithm)
	}
	return nil
}

// LoadConfig reads a JSON Config from path
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not decode %v: %w",
			path, err)
	}
	return c, nil
}

// Save writes c to path as JSON
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
