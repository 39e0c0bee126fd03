package montecarlo

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomontecarlo/environment"
	"github.com/samuelfneumann/gomontecarlo/policy"
)

// ExploringStarts learns a deterministic policy for env with
// generalized policy iteration over single episodes.
//
// Each iteration rolls out the current policy from a starting state
// with a uniformly random first action, updates the action values of
// each visited state-action pair with its first-visit return using
// sample averages, then replaces the whole policy with the greedy
// policy. Starting from the policy taking action 0 everywhere, env must
// terminate under every greedy policy or the run will not finish unless
// WithHorizon is given.
func ExploringStarts(env environment.Environment, iterations int,
	seed uint64, opts ...Option) (policy.Deterministic, *ActionValues, error) {
	if err := environment.Validate(env); err != nil {
		return nil, nil, fmt.Errorf("exploringStarts: %w", err)
	}
	if iterations <= 0 {
		return nil, nil, fmt.Errorf("exploringStarts: iterations must be "+
			"positive but got %d", iterations)
	}

	o := newOptions(opts)
	rng := rand.New(rand.NewSource(seed))

	q, err := NewActionValues(env.NumStates(), env.NumActions(),
		SampleAverage())
	if err != nil {
		return nil, nil, fmt.Errorf("exploringStarts: %w", err)
	}
	pi := policy.NewDeterministic(env.NumStates())
	sel := ExploringStart(Fixed(pi), env.NumActions())
	keys := actionKeys(env)

	r := o.start("exploring-starts", iterations)
	for i := 0; i < iterations; i++ {
		ep, err := rollout(env, env.StartingState, sel, rng, keys, &o)
		if err != nil {
			r.abort(i, err)
			return nil, nil, fmt.Errorf("exploringStarts: iteration %d: %w",
				i, err)
		}

		q.UpdateReturns(ep.Returns)
		pi.Improve(q.q)
		r.episode(i, ep)
	}
	r.finish()

	return pi, q, nil
}
