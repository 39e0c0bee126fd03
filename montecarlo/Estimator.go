package montecarlo

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// StepSize returns the step size used to update an estimate for the
// n-th time, n >= 1
type StepSize func(n float64) float64

// SampleAverage returns the step size 1/n, under which an estimate is
// the exact mean of its samples
func SampleAverage() StepSize {
	return func(n float64) float64 {
		return 1.0 / n
	}
}

// Constant returns the constant step size alpha, under which an
// estimate is an exponentially recency-weighted average of its samples
func Constant(alpha float64) StepSize {
	return func(float64) float64 {
		return alpha
	}
}

// update moves estimate towards g after incrementing its count
func update(estimate, count, g float64, alpha StepSize) (float64, float64) {
	count++
	return estimate + alpha(count)*(g-estimate), count
}

// ActionValues holds incremental estimates of action values, Q, and
// the number of samples each estimate has seen, N. States are along the
// rows and actions along the columns of both.
type ActionValues struct {
	q, n  *mat.Dense
	alpha StepSize
}

// NewActionValues returns zero action value estimates updated with
// step size alpha
func NewActionValues(states, actions int, alpha StepSize) (*ActionValues,
	error) {
	if states <= 0 || actions <= 0 {
		return nil, fmt.Errorf("newActionValues: cannot estimate %d states "+
			"and %d actions", states, actions)
	}
	if alpha == nil {
		return nil, fmt.Errorf("newActionValues: nil step size")
	}

	return &ActionValues{
		q:     mat.NewDense(states, actions, nil),
		n:     mat.NewDense(states, actions, nil),
		alpha: alpha,
	}, nil
}

// Update updates the estimate of the value of action in state with
// the sample return g
func (v *ActionValues) Update(state, action int, g float64) {
	q, n := update(v.q.At(state, action), v.n.At(state, action), g, v.alpha)
	v.q.Set(state, action, q)
	v.n.Set(state, action, n)
}

// UpdateReturns updates the estimate of every state-action pair in r,
// which must be keyed by ActionKey, with its first-visit return
func (v *ActionValues) UpdateReturns(r *Returns) {
	_, actions := v.q.Dims()
	for i := 0; i < r.Len(); i++ {
		key, g := r.At(i)
		state, action := SplitKey(key, actions)
		v.Update(state, action, g)
	}
}

// Dims returns the number of states and actions estimated
func (v *ActionValues) Dims() (states, actions int) {
	return v.q.Dims()
}

// At returns the estimated value of action in state
func (v *ActionValues) At(state, action int) float64 {
	return v.q.At(state, action)
}

// Visits returns the number of samples seen for action in state
func (v *ActionValues) Visits(state, action int) int {
	return int(v.n.At(state, action))
}

// Values returns a copy of the action value estimates
func (v *ActionValues) Values() *mat.Dense {
	return mat.DenseCopyOf(v.q)
}

// Counts returns a copy of the sample counts
func (v *ActionValues) Counts() *mat.Dense {
	return mat.DenseCopyOf(v.n)
}

// StateValues holds incremental estimates of state values, V, and the
// number of samples each estimate has seen, N
type StateValues struct {
	v, n  *mat.VecDense
	alpha StepSize
}

// NewStateValues returns zero state value estimates updated with step
// size alpha
func NewStateValues(states int, alpha StepSize) (*StateValues, error) {
	if states <= 0 {
		return nil, fmt.Errorf("newStateValues: cannot estimate %d states",
			states)
	}
	if alpha == nil {
		return nil, fmt.Errorf("newStateValues: nil step size")
	}

	return &StateValues{
		v:     mat.NewVecDense(states, nil),
		n:     mat.NewVecDense(states, nil),
		alpha: alpha,
	}, nil
}

// Update updates the estimate of the value of state with the sample
// return g
func (v *StateValues) Update(state int, g float64) {
	value, n := update(v.v.AtVec(state), v.n.AtVec(state), g, v.alpha)
	v.v.SetVec(state, value)
	v.n.SetVec(state, n)
}

// UpdateReturns updates the estimate of every state in r, which must
// be keyed by state, with its first-visit return
func (v *StateValues) UpdateReturns(r *Returns) {
	for i := 0; i < r.Len(); i++ {
		state, g := r.At(i)
		v.Update(state, g)
	}
}

// Len returns the number of states estimated
func (v *StateValues) Len() int {
	return v.v.Len()
}

// At returns the estimated value of state
func (v *StateValues) At(state int) float64 {
	return v.v.AtVec(state)
}

// Visits returns the number of samples seen for state
func (v *StateValues) Visits(state int) int {
	return int(v.n.AtVec(state))
}

// Values returns a copy of the state value estimates
func (v *StateValues) Values() *mat.VecDense {
	return mat.VecDenseCopyOf(v.v)
}

// Counts returns a copy of the sample counts
func (v *StateValues) Counts() *mat.VecDense {
	return mat.VecDenseCopyOf(v.n)
}

// greedy returns the action with the highest estimated value in state,
// breaking ties towards the lowest action index
func (v *ActionValues) greedy(state int) int {
	return floats.MaxIdx(v.q.RawRowView(state))
}
