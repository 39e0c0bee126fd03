// Package montecarlo implements first-visit Monte Carlo prediction and
// control for tabular environments.
//
// Every algorithm in this package learns only from complete episodes
// generated by rolling out a Selector in an environment.Environment.
// Episodes run until the environment reports termination; no step
// limit is imposed unless WithStepLimit or WithHorizon is given.
package montecarlo

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomontecarlo/environment"
	"github.com/samuelfneumann/gomontecarlo/timestep"
)

// ErrStepLimit is returned when an episode exceeds the step limit set
// with WithStepLimit
var ErrStepLimit = errors.New("step limit reached")

// Episode is the outcome of a single rollout
type Episode struct {
	// Returns holds the first-visit return of each visited key
	Returns *Returns

	// Steps is the number of steps taken
	Steps int

	// Return is the sum of all rewards in the episode
	Return float64

	// Truncated is true if the episode was ended by the horizon set
	// with WithHorizon rather than by the environment
	Truncated bool
}

// keyFunc maps a state-action pair to a Returns key
type keyFunc func(state, action int) int

// RolloutActions runs a single episode of env from a starting state,
// choosing actions with sel, and returns the first-visit returns keyed
// by state-action pair (see ActionKey)
func RolloutActions(env environment.Environment, sel Selector, rng *rand.Rand,
	opts ...Option) (*Episode, error) {
	o := newOptions(opts)
	return rollout(env, env.StartingState, sel, rng, actionKeys(env), &o)
}

// RolloutStates runs a single episode of env from a random state,
// choosing actions with sel, and returns the first-visit returns keyed
// by state
func RolloutStates(env environment.Environment, sel Selector, rng *rand.Rand,
	opts ...Option) (*Episode, error) {
	o := newOptions(opts)
	return rollout(env, env.RandomState, sel, rng, stateKeys, &o)
}

func actionKeys(env environment.Environment) keyFunc {
	actions := env.NumActions()
	return func(state, action int) int {
		return ActionKey(state, action, actions)
	}
}

func stateKeys(state, _ int) int {
	return state
}

func rollout(env environment.Environment, start func() (int, error),
	sel Selector, rng *rand.Rand, key keyFunc, o *options) (*Episode, error) {
	state, err := start()
	if err != nil {
		return nil, fmt.Errorf("rollout: could not start episode: %w", err)
	}
	if err := environment.CheckState(env, state); err != nil {
		return nil, fmt.Errorf("rollout: start: %w", err)
	}

	ep := &Episode{Returns: newReturns()}
	for done := false; !done; ep.Steps++ {
		if o.stepLimit > 0 && ep.Steps >= o.stepLimit {
			return nil, fmt.Errorf("rollout: %w: %d steps", ErrStepLimit,
				o.stepLimit)
		}

		action, err := sel.selectAction(ep.Steps, state, rng)
		if err != nil {
			return nil, fmt.Errorf("rollout: step %d: %w", ep.Steps, err)
		}
		if err := environment.CheckAction(env, action); err != nil {
			return nil, fmt.Errorf("rollout: step %d: selected %w", ep.Steps,
				err)
		}
		ep.Returns.visit(key(state, action))

		reward, next, terminal, err := env.PerformAction(state, action)
		if err != nil {
			return nil, fmt.Errorf("rollout: step %d: %w", ep.Steps, err)
		}
		if err := environment.CheckState(env, next); err != nil {
			return nil, fmt.Errorf("rollout: step %d: next %w", ep.Steps, err)
		}

		ep.Returns.add(reward)
		ep.Return += reward

		ep.Truncated = !terminal && o.horizon > 0 && ep.Steps+1 >= o.horizon
		done = terminal || ep.Truncated

		stepType := timestep.Mid
		if done {
			stepType = timestep.Last
		} else if ep.Steps == 0 {
			stepType = timestep.First
		}
		o.track(timestep.New(stepType, state, action, reward, next, ep.Steps))

		state = next
	}

	return ep, nil
}
