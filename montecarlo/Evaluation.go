package montecarlo

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomontecarlo/environment"
	"github.com/samuelfneumann/gomontecarlo/policy"
)

// EvaluateActionValues estimates the action values of the fixed policy
// pi in env with first-visit Monte Carlo prediction. Every episode
// starts from a starting state with a uniformly random first action and
// then follows pi. pi is never modified.
func EvaluateActionValues(env environment.Environment, pi policy.Deterministic,
	episodes int, seed uint64, opts ...Option) (*ActionValues, error) {
	if err := checkEvaluation(env, pi, episodes); err != nil {
		return nil, fmt.Errorf("evaluateActionValues: %w", err)
	}

	o := newOptions(opts)
	rng := rand.New(rand.NewSource(seed))

	q, err := NewActionValues(env.NumStates(), env.NumActions(),
		SampleAverage())
	if err != nil {
		return nil, fmt.Errorf("evaluateActionValues: %w", err)
	}
	sel := ExploringStart(Fixed(pi.Clone()), env.NumActions())
	keys := actionKeys(env)

	r := o.start("evaluate-q", episodes)
	for i := 0; i < episodes; i++ {
		ep, err := rollout(env, env.StartingState, sel, rng, keys, &o)
		if err != nil {
			r.abort(i, err)
			return nil, fmt.Errorf("evaluateActionValues: episode %d: %w", i,
				err)
		}
		q.UpdateReturns(ep.Returns)
		r.episode(i, ep)
	}
	r.finish()

	return q, nil
}

// EvaluateStateValues estimates the state values of the fixed policy
// pi in env with first-visit Monte Carlo prediction. Every episode
// starts from a random state of env and then follows pi. pi is never
// modified.
func EvaluateStateValues(env environment.Environment, pi policy.Deterministic,
	episodes int, seed uint64, opts ...Option) (*StateValues, error) {
	if err := checkEvaluation(env, pi, episodes); err != nil {
		return nil, fmt.Errorf("evaluateStateValues: %w", err)
	}

	o := newOptions(opts)
	rng := rand.New(rand.NewSource(seed))

	v, err := NewStateValues(env.NumStates(), SampleAverage())
	if err != nil {
		return nil, fmt.Errorf("evaluateStateValues: %w", err)
	}
	sel := Fixed(pi.Clone())

	r := o.start("evaluate-v", episodes)
	for i := 0; i < episodes; i++ {
		ep, err := rollout(env, env.RandomState, sel, rng, stateKeys, &o)
		if err != nil {
			r.abort(i, err)
			return nil, fmt.Errorf("evaluateStateValues: episode %d: %w", i,
				err)
		}
		v.UpdateReturns(ep.Returns)
		r.episode(i, ep)
	}
	r.finish()

	return v, nil
}

func checkEvaluation(env environment.Environment, pi policy.Deterministic,
	episodes int) error {
	if err := environment.Validate(env); err != nil {
		return err
	}
	if episodes <= 0 {
		return fmt.Errorf("episodes must be positive but got %d", episodes)
	}
	if len(pi) != env.NumStates() {
		return fmt.Errorf("policy has %d states but environment has %d",
			len(pi), env.NumStates())
	}
	return pi.Validate(env.NumActions())
}
