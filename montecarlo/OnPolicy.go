package montecarlo

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomontecarlo/environment"
	"github.com/samuelfneumann/gomontecarlo/policy"
)

const (
	// DefaultEpsilon is the exploration rate used by OnPolicy when
	// none is configured
	DefaultEpsilon float64 = 0.1

	// DefaultAlpha is the constant step size used by OnPolicy when none
	// is configured
	DefaultAlpha float64 = 0.1
)

// EpsilonSchedule returns the exploration rate to use after episode
// episode out of episodes episodes
type EpsilonSchedule func(episode, episodes int) float64

// ConstantEpsilon returns an EpsilonSchedule which is always epsilon
func ConstantEpsilon(epsilon float64) EpsilonSchedule {
	return func(int, int) float64 {
		return epsilon
	}
}

// LinearEpsilon returns an EpsilonSchedule which decays linearly from
// start on the first episode to end on the last
func LinearEpsilon(start, end float64) EpsilonSchedule {
	return func(episode, episodes int) float64 {
		if episodes <= 1 {
			return end
		}
		frac := float64(episode) / float64(episodes-1)
		return start + frac*(end-start)
	}
}

// OnPolicyConfig configures OnPolicy
type OnPolicyConfig struct {
	// Episodes is the number of episodes to learn from
	Episodes int

	// Epsilon gives the exploration rate of the policy. If nil,
	// ConstantEpsilon(DefaultEpsilon) is used.
	Epsilon EpsilonSchedule

	// StepSize gives the step size of action value updates. If nil,
	// Constant(DefaultAlpha) is used.
	StepSize StepSize

	// ExploringStarts takes a uniformly random first action in each
	// episode
	ExploringStarts bool
}

// Validate checks that c can be used to run OnPolicy
func (c OnPolicyConfig) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("validate: episodes must be positive but got %d",
			c.Episodes)
	}
	return nil
}

func (c OnPolicyConfig) withDefaults() OnPolicyConfig {
	if c.Epsilon == nil {
		c.Epsilon = ConstantEpsilon(DefaultEpsilon)
	}
	if c.StepSize == nil {
		c.StepSize = Constant(DefaultAlpha)
	}
	return c
}

// OnPolicy learns an ε-soft policy for env with on-policy first-visit
// Monte Carlo control.
//
// The policy starts out uniform. Each episode samples actions from the
// current policy, updates the action values of each visited
// state-action pair with its first-visit return, then makes the policy
// ε-soft around the greedy action in each state visited in the episode.
// States not visited keep their action probabilities.
func OnPolicy(env environment.Environment, cfg OnPolicyConfig, seed uint64,
	opts ...Option) (*policy.Stochastic, *ActionValues, error) {
	if err := environment.Validate(env); err != nil {
		return nil, nil, fmt.Errorf("onPolicy: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("onPolicy: %w", err)
	}
	cfg = cfg.withDefaults()

	o := newOptions(opts)
	rng := rand.New(rand.NewSource(seed))

	q, err := NewActionValues(env.NumStates(), env.NumActions(), cfg.StepSize)
	if err != nil {
		return nil, nil, fmt.Errorf("onPolicy: %w", err)
	}
	pi := policy.NewUniform(env.NumStates(), env.NumActions())
	sel := Sampled(pi)
	if cfg.ExploringStarts {
		sel = ExploringStart(sel, env.NumActions())
	}
	keys := actionKeys(env)

	r := o.start("on-policy", cfg.Episodes)
	for i := 0; i < cfg.Episodes; i++ {
		ep, err := rollout(env, env.StartingState, sel, rng, keys, &o)
		if err != nil {
			r.abort(i, err)
			return nil, nil, fmt.Errorf("onPolicy: episode %d: %w", i, err)
		}

		q.UpdateReturns(ep.Returns)
		for _, state := range ep.Returns.states(env.NumActions()) {
			epsilon := cfg.Epsilon(i, cfg.Episodes)
			err := pi.SetEpsilonSoft(state, q.greedy(state), epsilon)
			if err != nil {
				r.abort(i, err)
				return nil, nil, fmt.Errorf("onPolicy: episode %d: %w", i, err)
			}
		}
		r.episode(i, ep)
	}
	r.finish()

	return pi, q, nil
}
