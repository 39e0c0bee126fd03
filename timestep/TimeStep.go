// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single step of an episode: the action
// taken in State, the Reward received for it, and the Next state the
// environment transitioned to. Number counts steps from 0 within the
// episode.
type TimeStep struct {
	StepType
	State  int
	Action int
	Reward float64
	Next   int
	Number int
}

// New returns a new TimeStep
func New(t StepType, state, action int, r float64, next, n int) TimeStep {
	return TimeStep{t, state, action, r, next, n}
}

// First returns whether a TimeStep is the first in an episode
func (t TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  State: %d  |  Action: %d  |  " +
		"Reward:  %.2f  |  Next: %d  |  Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.State, t.Action, t.Reward, t.Next,
		t.Number)
}
