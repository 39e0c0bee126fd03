package montecarlo

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomontecarlo/timestep"
)

// transition is a single scripted environment step
type transition struct {
	reward float64
	next   int
}

// scriptedEnv replays a fixed trace of transitions, ignoring the
// actions taken. The episode terminates on the last transition.
type scriptedEnv struct {
	states, actions int
	start           int
	trace           []transition
	step            int
}

func (s *scriptedEnv) NumStates() int { return s.states }
func (s *scriptedEnv) NumActions() int { return s.actions }

func (s *scriptedEnv) StartingState() (int, error) {
	s.step = 0
	return s.start, nil
}

func (s *scriptedEnv) RandomState() (int, error) { return s.StartingState() }

func (s *scriptedEnv) PerformAction(_, _ int) (float64, int, bool, error) {
	t := s.trace[s.step]
	s.step++
	return t.reward, t.next, s.step == len(s.trace), nil
}

// geometricEnv has a single state in which every action gives a
// reward of -1 and terminates with probability p
type geometricEnv struct {
	actions int
	p       float64
	rng     *rand.Rand
}

func newGeometricEnv(actions int, p float64, seed uint64) *geometricEnv {
	return &geometricEnv{actions, p, rand.New(rand.NewSource(seed))}
}

func (g *geometricEnv) NumStates() int { return 1 }
func (g *geometricEnv) NumActions() int { return g.actions }
func (g *geometricEnv) StartingState() (int, error) { return 0, nil }
func (g *geometricEnv) RandomState() (int, error) { return 0, nil }

func (g *geometricEnv) PerformAction(_, _ int) (float64, int, bool, error) {
	return -1, 0, g.rng.Float64() < g.p, nil
}

// ladderEnv is a two-state environment in which every episode
// terminates within two steps. Action 0 terminates with reward -5 in
// either state. Action 1 moves from state 0 to state 1 with reward -1,
// and terminates from state 1 with reward 0. The optimal policy takes
// action 1 everywhere for a return of -1 from state 0.
type ladderEnv struct {
	rng *rand.Rand
}

func newLadderEnv(seed uint64) *ladderEnv {
	return &ladderEnv{rand.New(rand.NewSource(seed))}
}

func (l *ladderEnv) NumStates() int { return 2 }
func (l *ladderEnv) NumActions() int { return 2 }
func (l *ladderEnv) StartingState() (int, error) { return 0, nil }
func (l *ladderEnv) RandomState() (int, error) { return l.rng.Intn(2), nil }

func (l *ladderEnv) PerformAction(state, action int) (float64, int, bool,
	error) {
	switch {
	case action == 0:
		return -5, 0, true, nil
	case state == 0:
		return -1, 1, false, nil
	default:
		return 0, 0, true, nil
	}
}

// stuckEnv never terminates
type stuckEnv struct{}

func (stuckEnv) NumStates() int { return 1 }
func (stuckEnv) NumActions() int { return 1 }
func (stuckEnv) StartingState() (int, error) { return 0, nil }
func (stuckEnv) RandomState() (int, error) { return 0, nil }

func (stuckEnv) PerformAction(_, _ int) (float64, int, bool, error) {
	return -1, 0, false, nil
}

// scripted selects a fixed sequence of actions
type scripted []int

func (s scripted) selectAction(step, _ int, _ *rand.Rand) (int, error) {
	return s[step], nil
}

// recorder is a Tracker which keeps every step it sees
type recorder struct {
	steps []timestep.TimeStep
}

func (r *recorder) Track(t timestep.TimeStep) {
	r.steps = append(r.steps, t)
}
