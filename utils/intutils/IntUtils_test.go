package intutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name          string
		value, lo, hi int
		want          int
	}{
		{"inside", 2, 0, 4, 2},
		{"below", -1, 0, 4, 0},
		{"above", 5, 0, 4, 4},
		{"at bounds", 4, 0, 4, 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, Clip(test.value, test.lo, test.hi))
		})
	}
}

func TestMinMax(t *testing.T) {
	require.Equal(t, -3, Min(4, -3, 2))
	require.Equal(t, 4, Max(4, -3, 2))
}
