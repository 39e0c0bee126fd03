package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleAverage(t *testing.T) {
	t.Run("IdenticalSamples", func(t *testing.T) {
		q, err := NewActionValues(2, 3, SampleAverage())
		require.NoError(t, err)

		for i := 1; i <= 10; i++ {
			q.Update(1, 2, -4.5)
			require.Equal(t, -4.5, q.At(1, 2))
			require.Equal(t, i, q.Visits(1, 2))
		}
		require.Equal(t, 0.0, q.At(0, 0))
		require.Equal(t, 0, q.Visits(0, 0))
	})

	t.Run("Mean", func(t *testing.T) {
		v, err := NewStateValues(1, SampleAverage())
		require.NoError(t, err)

		for _, g := range []float64{1, 2, 3, 6} {
			v.Update(0, g)
		}
		require.InDelta(t, 3.0, v.At(0), 1e-12)
		require.Equal(t, 4, v.Visits(0))
	})
}

func TestConstantStepSize(t *testing.T) {
	v, err := NewStateValues(2, Constant(0.5))
	require.NoError(t, err)

	v.Update(1, 4)
	require.Equal(t, 2.0, v.At(1))
	v.Update(1, 4)
	require.Equal(t, 3.0, v.At(1))
	v.Update(1, 0)
	require.Equal(t, 1.5, v.At(1))
	require.Equal(t, 3, v.Visits(1))
}

func TestUpdateReturns(t *testing.T) {
	r := newReturns()
	r.visit(ActionKey(0, 1, 3))
	r.add(1)
	r.visit(ActionKey(2, 2, 3))
	r.add(2)

	q, err := NewActionValues(3, 3, SampleAverage())
	require.NoError(t, err)
	q.UpdateReturns(r)

	require.Equal(t, 3.0, q.At(0, 1))
	require.Equal(t, 2.0, q.At(2, 2))
	require.Equal(t, 1, q.Visits(0, 1))
	require.Equal(t, 0, q.Visits(1, 1))

	values := q.Values()
	values.Set(0, 1, 100)
	require.Equal(t, 3.0, q.At(0, 1))

	states, actions := q.Dims()
	require.Equal(t, 3, states)
	require.Equal(t, 3, actions)
	require.Equal(t, []int{0, 2}, r.states(3))
}

func TestNewEstimatorErrors(t *testing.T) {
	_, err := NewActionValues(0, 3, SampleAverage())
	require.Error(t, err)
	_, err = NewActionValues(3, 0, SampleAverage())
	require.Error(t, err)
	_, err = NewActionValues(3, 3, nil)
	require.Error(t, err)
	_, err = NewStateValues(0, SampleAverage())
	require.Error(t, err)
	_, err = NewStateValues(1, nil)
	require.Error(t, err)
}
