// Package experiment implements functionality for running a Monte
// Carlo algorithm on a race track, tracking the data generated by its
// episodes, and demonstrating the resulting policy
package experiment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/gomontecarlo/environment/racetrack"
	"github.com/samuelfneumann/gomontecarlo/experiment/tracker"
	"github.com/samuelfneumann/gomontecarlo/montecarlo"
	"github.com/samuelfneumann/gomontecarlo/policy"
)

// RecentEpisodes is the number of final episodes summarized in
// Result.Recent
const RecentEpisodes = 100

// Data files written to Config.DataDir
const (
	ReturnsFile = "returns.bin"
	LengthsFile = "lengths.bin"
)

// Result is the outcome of a run
type Result struct {
	Config Config

	// Deterministic is the learned or evaluated deterministic policy.
	// It is nil for on-policy control.
	Deterministic policy.Deterministic

	// Stochastic is the learned ε-soft policy of on-policy control
	Stochastic *policy.Stochastic

	// ActionValues is nil for state value evaluation, and StateValues
	// is nil otherwise
	ActionValues *montecarlo.ActionValues
	StateValues  *montecarlo.StateValues

	// Returns and Lengths summarize all episodes of the run and Recent
	// summarizes the returns of the last RecentEpisodes episodes
	Returns tracker.Summary
	Lengths tracker.Summary
	Recent  tracker.Summary

	// Race is the demonstration race of the policy, nil if none was run
	Race *Race

	Elapsed time.Duration
}

// Run runs the algorithm described by cfg, logging to logger. If
// progress is not nil, a progress bar is drawn to it.
func Run(cfg Config, logger zerolog.Logger, progress io.Writer) (*Result,
	error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	env, err := racetrack.Load(cfg.Track, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	logger.Info().Str("track", cfg.Track).Msg(env.String())

	returns := tracker.NewReturn(dataFile(cfg, ReturnsFile))
	lengths := tracker.NewEpisodeLength(dataFile(cfg, LengthsFile))

	opts := []montecarlo.Option{
		montecarlo.WithLogger(logger),
		montecarlo.WithHorizon(cfg.Horizon),
		montecarlo.WithStepLimit(cfg.StepLimit),
	}
	runOpts := append([]montecarlo.Option{
		montecarlo.WithTrackers(returns, lengths),
	}, opts...)
	if progress != nil {
		runOpts = append(runOpts, montecarlo.WithProgress(progress))
	}

	start := time.Now()
	result := &Result{Config: cfg}
	var sel montecarlo.Selector

	switch cfg.Algorithm {
	case ExploringStarts:
		result.Deterministic, result.ActionValues, err =
			montecarlo.ExploringStarts(env, cfg.Episodes, cfg.Seed, runOpts...)
		sel = montecarlo.Fixed(result.Deterministic)

	case OnPolicy:
		result.Stochastic, result.ActionValues, err = montecarlo.OnPolicy(env,
			onPolicyConfig(cfg), cfg.Seed, runOpts...)
		sel = montecarlo.Sampled(result.Stochastic)

	case EvaluateQ, EvaluateV:
		result.Deterministic, err = evaluationPolicy(env, cfg, opts)
		if err != nil {
			break
		}
		sel = montecarlo.Fixed(result.Deterministic)

		if cfg.Algorithm == EvaluateQ {
			result.ActionValues, err = montecarlo.EvaluateActionValues(env,
				result.Deterministic, cfg.Episodes, cfg.Seed, runOpts...)
		} else {
			result.StateValues, err = montecarlo.EvaluateStateValues(env,
				result.Deterministic, cfg.Episodes, cfg.Seed, runOpts...)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("run: %v: %w", cfg.Algorithm, err)
	}
	result.Elapsed = time.Since(start)

	result.Returns = tracker.Summarize(returns.Data())
	result.Lengths = tracker.Summarize(lengths.Data())
	result.Recent = tracker.Last(returns.Data(), RecentEpisodes)

	if cfg.DataDir != "" {
		if err := saveData(cfg.DataDir, returns, lengths); err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}
		logger.Info().Str("dir", cfg.DataDir).Msg("saved episode data")
	}

	if cfg.DemoSteps > 0 {
		result.Race, err = RunRace(env, sel, cfg.Seed, cfg.DemoSteps)
		if err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}
		logger.Info().
			Bool("finished", result.Race.Finished).
			Int("steps", result.Race.Steps).
			Float64("return", result.Race.Return).
			Msg("demonstration race complete")
	}

	return result, nil
}

// onPolicyConfig returns the configuration of the on-policy algorithm
// described by cfg
func onPolicyConfig(cfg Config) montecarlo.OnPolicyConfig {
	c := montecarlo.OnPolicyConfig{
		Episodes:        cfg.Episodes,
		Epsilon:         montecarlo.ConstantEpsilon(cfg.Epsilon),
		StepSize:        montecarlo.Constant(cfg.Alpha),
		ExploringStarts: cfg.ExploringStarts,
	}
	if cfg.FinalEpsilon >= 0 {
		c.Epsilon = montecarlo.LinearEpsilon(cfg.Epsilon, cfg.FinalEpsilon)
	}
	if cfg.Alpha == 0 {
		c.StepSize = montecarlo.SampleAverage()
	}
	return c
}

// evaluationPolicy returns the policy evaluated by the evaluation
// algorithms
func evaluationPolicy(env *racetrack.RaceTrack, cfg Config,
	opts []montecarlo.Option) (policy.Deterministic, error) {
	if cfg.ImproveEpisodes == 0 {
		return policy.NewDeterministic(env.NumStates()), nil
	}

	improve := cfg
	improve.Episodes = cfg.ImproveEpisodes
	_, q, err := montecarlo.OnPolicy(env, onPolicyConfig(improve), cfg.Seed,
		opts...)
	if err != nil {
		return nil, fmt.Errorf("evaluationPolicy: %w", err)
	}
	return policy.Greedy(q.Values()), nil
}

func dataFile(cfg Config, name string) string {
	if cfg.DataDir == "" {
		return ""
	}
	return filepath.Join(cfg.DataDir, name)
}

func saveData(dir string, trackers ...tracker.Tracker) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("saveData: %w", err)
	}
	for _, t := range trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("saveData: %w", err)
		}
	}
	return nil
}
