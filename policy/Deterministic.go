// Package policy implements tabular policies over dense state and
// action ids
package policy

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Deterministic is a deterministic policy, holding the action chosen
// in each state
type Deterministic []int

// NewDeterministic returns a Deterministic policy over states states
// which chooses action 0 everywhere
func NewDeterministic(states int) Deterministic {
	return make(Deterministic, states)
}

// Action returns the action chosen in state
func (d Deterministic) Action(state int) int {
	return d[state]
}

// Greedy returns the Deterministic policy which is greedy with respect
// to the action values q, with states along the rows and actions along
// the columns. Ties are broken towards the lowest action index.
func Greedy(q mat.Matrix) Deterministic {
	states, _ := q.Dims()
	d := NewDeterministic(states)
	d.Improve(q)
	return d
}

// Improve replaces the action in every state with the greedy action
// with respect to q. Ties are broken towards the lowest action index.
func (d Deterministic) Improve(q mat.Matrix) {
	states, actions := q.Dims()
	if states != len(d) {
		panic(fmt.Sprintf("improve: policy has %d states but action values "+
			"have %d", len(d), states))
	}

	row := make([]float64, actions)
	for s := range d {
		mat.Row(row, s, q)
		d[s] = floats.MaxIdx(row)
	}
}

// Validate ensures that every action lies in [0, actions)
func (d Deterministic) Validate(actions int) error {
	for s, a := range d {
		if a < 0 || a >= actions {
			return fmt.Errorf("validate: state %d has action %d not in [0, %d)",
				s, a, actions)
		}
	}
	return nil
}

// Clone returns a copy of the policy
func (d Deterministic) Clone() Deterministic {
	return append(Deterministic(nil), d...)
}
