package montecarlo

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomontecarlo/policy"
)

// Selector chooses the action to take at each step of a rollout.
//
// The set of Selectors is closed: a fixed deterministic policy, a
// sampled stochastic policy, and an exploring start override of
// either. Policies referenced by a Selector are read on every step, so
// updates made to them between episodes are seen by the next episode.
type Selector interface {
	// selectAction returns the action to take in state on the given
	// step of the episode, drawing any randomness from rng
	selectAction(step, state int, rng *rand.Rand) (int, error)
}

type fixed struct {
	policy policy.Deterministic
}

// Fixed returns a Selector which takes the action of p in each state
func Fixed(p policy.Deterministic) Selector {
	return fixed{p}
}

func (f fixed) selectAction(_, state int, _ *rand.Rand) (int, error) {
	return f.policy.Action(state), nil
}

type sampled struct {
	policy *policy.Stochastic
}

// Sampled returns a Selector which samples an action from the
// distribution of p in each state
func Sampled(p *policy.Stochastic) Selector {
	return sampled{p}
}

func (s sampled) selectAction(_, state int, rng *rand.Rand) (int, error) {
	return s.policy.Sample(state, rng)
}

type exploringStart struct {
	inner   Selector
	actions int
}

// ExploringStart returns a Selector which takes a uniformly random
// action out of actions actions on the first step of an episode and
// defers to inner on every later step
func ExploringStart(inner Selector, actions int) Selector {
	return exploringStart{inner, actions}
}

func (e exploringStart) selectAction(step, state int, rng *rand.Rand) (int,
	error) {
	if step == 0 {
		return rng.Intn(e.actions), nil
	}
	return e.inner.selectAction(step, state, rng)
}
