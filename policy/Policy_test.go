package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestGreedy(t *testing.T) {
	t.Run("choosing the maximum action value", func(t *testing.T) {
		q := mat.NewDense(3, 3, []float64{
			-1, 2, 0,
			5, -3, 4,
			-7, -2, -4,
		})
		require.Equal(t, Deterministic{1, 0, 1}, Greedy(q))
	})

	t.Run("breaking ties towards the lowest index", func(t *testing.T) {
		q := mat.NewDense(3, 4, []float64{
			0, 0, 0, 0,
			-1, 3, 3, -1,
			-2, -5, -2, -2,
		})
		require.Equal(t, Deterministic{0, 1, 0}, Greedy(q))
	})

	t.Run("improving replaces every state", func(t *testing.T) {
		d := Deterministic{2, 2}
		d.Improve(mat.NewDense(2, 3, []float64{
			1, 0, 0,
			0, 0, 0,
		}))
		require.Equal(t, Deterministic{0, 0}, d,
			"Unvisited all-zero rows should fall back to action 0")
	})

	t.Run("panics on mismatched dimensions", func(t *testing.T) {
		require.Panics(t, func() {
			NewDeterministic(2).Improve(mat.NewDense(3, 2, nil))
		})
	})
}

func TestDeterministicValidate(t *testing.T) {
	require.NoError(t, Deterministic{0, 1, 2}.Validate(3))
	require.Error(t, Deterministic{0, 3}.Validate(3))
	require.Error(t, Deterministic{-1}.Validate(3))
}

func TestEpsilonSoft(t *testing.T) {
	t.Run("rows remain distributions", func(t *testing.T) {
		p := NewUniform(4, 9)
		for i, epsilon := range []float64{0, 0.1, 0.5, 0.99, 1} {
			state := i % 4
			require.NoError(t, p.SetEpsilonSoft(state, (i*5)%9, epsilon))

			probs := p.Probabilities(state)
			require.InDelta(t, 1.0, floats.Sum(probs), Tolerance)
			for _, prob := range probs {
				require.GreaterOrEqual(t, prob, 0.0)
			}
		}
		require.NoError(t, p.Validate())
	})

	t.Run("greedy action gets the remaining mass", func(t *testing.T) {
		p := NewUniform(1, 4)
		require.NoError(t, p.SetEpsilonSoft(0, 2, 0.2))
		require.InDeltaSlice(t, []float64{0.05, 0.05, 0.85, 0.05},
			p.Probabilities(0), 1e-12)
	})

	t.Run("rejects invalid epsilon", func(t *testing.T) {
		p := NewUniform(1, 4)
		require.ErrorIs(t, p.SetEpsilonSoft(0, 0, -0.1), ErrInvalidEpsilon)
		require.ErrorIs(t, p.SetEpsilonSoft(0, 0, 1.1), ErrInvalidEpsilon)
		require.Error(t, p.SetEpsilonSoft(0, 4, 0.1))
	})
}

func TestStochastic(t *testing.T) {
	t.Run("uniform rows", func(t *testing.T) {
		p := NewUniform(2, 4)
		require.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25},
			p.Probabilities(1), 1e-12)
	})

	t.Run("rejects rows that do not sum to one", func(t *testing.T) {
		_, err := NewStochastic(mat.NewDense(2, 2, []float64{
			0.5, 0.5,
			0.5, 0.4,
		}))
		require.ErrorIs(t, err, ErrNotDistribution)
	})

	t.Run("rejects negative probabilities", func(t *testing.T) {
		_, err := NewStochastic(mat.NewDense(1, 2, []float64{1.5, -0.5}))
		require.ErrorIs(t, err, ErrNotDistribution)
	})

	t.Run("sampling a degenerate row", func(t *testing.T) {
		p, err := NewStochastic(mat.NewDense(1, 3, []float64{0, 0, 1}))
		require.NoError(t, err)

		src := rand.NewSource(1)
		for i := 0; i < 50; i++ {
			a, err := p.Sample(0, src)
			require.NoError(t, err)
			require.Equal(t, 2, a)
		}
	})

	t.Run("sampling follows the probabilities", func(t *testing.T) {
		p, err := NewStochastic(mat.NewDense(1, 2, []float64{0.25, 0.75}))
		require.NoError(t, err)

		src := rand.NewSource(7)
		counts := make([]float64, 2)
		samples := 20000
		for i := 0; i < samples; i++ {
			a, err := p.Sample(0, src)
			require.NoError(t, err)
			counts[a]++
		}
		require.InDelta(t, 0.75, counts[1]/float64(samples), 0.02)
	})

	t.Run("sampling fails fast on a corrupted row", func(t *testing.T) {
		p := NewUniform(1, 2)
		p.Probabilities(0)[0] = 0.9

		_, err := p.Sample(0, rand.NewSource(1))
		require.ErrorIs(t, err, ErrNotDistribution)
		require.InDelta(t, 0.9, p.Probabilities(0)[0], 0,
			"Sampling should never renormalise the row")
	})

	t.Run("matrix is a copy", func(t *testing.T) {
		p := NewUniform(1, 2)
		m := p.Matrix()
		m.Set(0, 0, 1)
		require.InDelta(t, 0.5, p.Probabilities(0)[0], 0)
	})
}
