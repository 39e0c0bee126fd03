// Package environment outlines the interface that tabular environments
// must implement to be used with the Monte Carlo algorithms
package environment

import (
	"errors"
	"fmt"
)

var (
	// ErrStateOutOfRange is returned when a state id lies outside
	// [0, NumStates())
	ErrStateOutOfRange = errors.New("state out of range")

	// ErrActionOutOfRange is returned when an action id lies outside
	// [0, NumActions())
	ErrActionOutOfRange = errors.New("action out of range")
)

// Environment implements a simulated, episodic environment with a
// finite number of states and actions. States and actions are dense
// integer ids in [0, NumStates()) and [0, NumActions()).
//
// An Environment must guarantee that episodes eventually terminate
// under any policy used to act in it. The algorithms that consume an
// Environment impose no step limit of their own.
type Environment interface {
	// NumStates returns the number of states, constant for the
	// lifetime of the Environment
	NumStates() int

	// NumActions returns the number of actions, constant for the
	// lifetime of the Environment
	NumActions() int

	// StartingState returns a state that a true episode may start in
	StartingState() (int, error)

	// RandomState returns an arbitrary non-terminal state, used when
	// episodes should start anywhere in the state space
	RandomState() (int, error)

	// PerformAction takes action in state and returns the reward,
	// the next state, and whether the episode has terminated
	PerformAction(state, action int) (reward float64, next int,
		terminal bool, err error)
}

// CheckState returns an error wrapping ErrStateOutOfRange if state is
// not a valid state id of env
func CheckState(env Environment, state int) error {
	if state < 0 || state >= env.NumStates() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrStateOutOfRange, state,
			env.NumStates())
	}
	return nil
}

// CheckAction returns an error wrapping ErrActionOutOfRange if action
// is not a valid action id of env
func CheckAction(env Environment, action int) error {
	if action < 0 || action >= env.NumActions() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrActionOutOfRange, action,
			env.NumActions())
	}
	return nil
}

// Validate ensures that env has a non-empty state and action space
func Validate(env Environment) error {
	if env == nil {
		return fmt.Errorf("validate: nil environment")
	}
	if env.NumStates() <= 0 {
		return fmt.Errorf("validate: environment has %d states",
			env.NumStates())
	}
	if env.NumActions() <= 0 {
		return fmt.Errorf("validate: environment has %d actions",
			env.NumActions())
	}
	return nil
}
