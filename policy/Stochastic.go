package policy

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Tolerance is the allowed deviation of a row sum from 1
const Tolerance float64 = 1e-9

var (
	// ErrNotDistribution is returned when a row of a stochastic policy
	// is not a probability distribution
	ErrNotDistribution = errors.New("not a probability distribution")

	// ErrInvalidEpsilon is returned when ε lies outside [0, 1]
	ErrInvalidEpsilon = errors.New("epsilon not in [0, 1]")
)

// Stochastic is a stochastic policy, holding a probability
// distribution over actions in each state. States are along the rows
// and actions along the columns of the underlying matrix.
type Stochastic struct {
	probs *mat.Dense
}

// NewUniform returns a Stochastic policy which chooses every action
// with equal probability in every state
func NewUniform(states, actions int) *Stochastic {
	probs := mat.NewDense(states, actions, nil)
	probs.Apply(func(_, _ int, _ float64) float64 {
		return 1.0 / float64(actions)
	}, probs)

	return &Stochastic{probs}
}

// NewStochastic returns a Stochastic policy with action probabilities
// probs. Each row of probs must be a probability distribution.
func NewStochastic(probs *mat.Dense) (*Stochastic, error) {
	s := &Stochastic{mat.DenseCopyOf(probs)}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("newStochastic: %w", err)
	}
	return s, nil
}

// Dims returns the number of states and actions of the policy
func (s *Stochastic) Dims() (states, actions int) {
	return s.probs.Dims()
}

// Probabilities returns the action probabilities in state. The
// returned slice shares storage with the policy.
func (s *Stochastic) Probabilities(state int) []float64 {
	return s.probs.RawRowView(state)
}

// Matrix returns a copy of the action probabilities
func (s *Stochastic) Matrix() *mat.Dense {
	return mat.DenseCopyOf(s.probs)
}

// Sample draws an action from the distribution over actions in state.
// An error is returned if the row is not a probability distribution.
func (s *Stochastic) Sample(state int, src rand.Source) (int, error) {
	probs := s.Probabilities(state)
	if err := checkRow(probs); err != nil {
		return 0, fmt.Errorf("sample: state %d: %w", state, err)
	}

	dist := distuv.NewCategorical(probs, src)
	return int(dist.Rand()), nil
}

// SetEpsilonSoft sets the action probabilities in state to those of an
// ε-soft policy around the greedy action: every action is given
// probability ε/|A| and the greedy action an additional 1-ε.
func (s *Stochastic) SetEpsilonSoft(state, greedy int, epsilon float64) error {
	if epsilon < 0 || epsilon > 1 || math.IsNaN(epsilon) {
		return fmt.Errorf("setEpsilonSoft: %w: %v", ErrInvalidEpsilon, epsilon)
	}

	probs := s.Probabilities(state)
	if greedy < 0 || greedy >= len(probs) {
		return fmt.Errorf("setEpsilonSoft: greedy action %d not in [0, %d)",
			greedy, len(probs))
	}

	for a := range probs {
		probs[a] = epsilon / float64(len(probs))
	}
	probs[greedy] += 1.0 - epsilon
	return nil
}

// Validate ensures that every row of the policy is a probability
// distribution
func (s *Stochastic) Validate() error {
	states, _ := s.probs.Dims()
	for state := 0; state < states; state++ {
		if err := checkRow(s.Probabilities(state)); err != nil {
			return fmt.Errorf("validate: state %d: %w", state, err)
		}
	}
	return nil
}

func checkRow(probs []float64) error {
	for a, p := range probs {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("%w: action %d has probability %v",
				ErrNotDistribution, a, p)
		}
	}
	if sum := floats.Sum(probs); !scalar.EqualWithinAbs(sum, 1.0, Tolerance) {
		return fmt.Errorf("%w: probabilities sum to %v", ErrNotDistribution,
			sum)
	}
	return nil
}
