package racetrack

import (
	"fmt"

	"github.com/samuelfneumann/gomontecarlo/environment"
)

const (
	// MaxSpeed bounds each speed component to [0, MaxSpeed-1]
	MaxSpeed int = 5

	// Accelerations per axis are in {-1, 0, 1}
	accelerations int = 3
	numActions    int = accelerations * accelerations
)

// State is the decoded form of a race track state id: the car's
// location and its horizontal and vertical speed. Horizontal speed
// moves the car towards larger columns and vertical speed moves the
// car towards row 0.
type State struct {
	Col, Row       int
	HSpeed, VSpeed int
}

// Action is the decoded form of a race track action id, an
// acceleration in {-1, 0, 1} on each axis
type Action struct {
	HAccel, VAccel int
}

// StateID encodes s as a dense state id. Ids are laid out column major:
//
//	id = col*rows*MaxSpeed² + row*MaxSpeed² + hspeed*MaxSpeed + vspeed
func (r *RaceTrack) StateID(s State) (int, error) {
	if s.Col < 0 || s.Col >= r.width || s.Row < 0 || s.Row >= r.height ||
		s.HSpeed < 0 || s.HSpeed >= MaxSpeed ||
		s.VSpeed < 0 || s.VSpeed >= MaxSpeed {
		return 0, fmt.Errorf("stateID: %w: %+v", environment.ErrStateOutOfRange, s)
	}

	return r.stateID(s), nil
}

func (r *RaceTrack) stateID(s State) int {
	speeds := MaxSpeed * MaxSpeed
	return s.Col*r.height*speeds + s.Row*speeds + s.HSpeed*MaxSpeed + s.VSpeed
}

// StateOf decodes a state id
func (r *RaceTrack) StateOf(id int) (State, error) {
	if err := environment.CheckState(r, id); err != nil {
		return State{}, fmt.Errorf("stateOf: %w", err)
	}

	speeds := MaxSpeed * MaxSpeed
	col := id / (r.height * speeds)
	id -= col * r.height * speeds
	row := id / speeds
	id -= row * speeds

	return State{
		Col:    col,
		Row:    row,
		HSpeed: id / MaxSpeed,
		VSpeed: id % MaxSpeed,
	}, nil
}

// ActionID encodes a as a dense action id, (h+1)*3 + (v+1)
func ActionID(a Action) (int, error) {
	if a.HAccel < -1 || a.HAccel > 1 || a.VAccel < -1 || a.VAccel > 1 {
		return 0, fmt.Errorf("actionID: %w: %+v", environment.ErrActionOutOfRange,
			a)
	}
	return (a.HAccel+1)*accelerations + (a.VAccel + 1), nil
}

// ActionOf decodes an action id
func ActionOf(id int) (Action, error) {
	if id < 0 || id >= numActions {
		return Action{}, fmt.Errorf("actionOf: %w: %d not in [0, %d)",
			environment.ErrActionOutOfRange, id, numActions)
	}
	return Action{
		HAccel: id/accelerations - 1,
		VAccel: id%accelerations - 1,
	}, nil
}
