package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tritium/internal/faults"
)

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
	assert.Nil(t, Linspace(0, 1, 0))

	x := Linspace(0, 0.3, 7)
	assert.Equal(t, 0.3, x[len(x)-1], "last sample must be exact")
}

func TestInterp(t *testing.T) {
	x := []float64{0, 1, 3}
	y := []float64{0, 10, 30}

	got := Interp(x, y, []float64{-1, 0, 0.5, 1, 2, 3, 4})
	assert.Equal(t, []float64{0, 0, 5, 10, 20, 30, 30}, got)
}

func TestInterpKnotsExact(t *testing.T) {
	x := Linspace(0, 2.7, 10)
	y := make([]float64, len(x))
	for i := range y {
		y[i] = float64(i*i) * 1.1
	}
	assert.Equal(t, y, Interp(x, y, x))
}

func TestDiscretise1D(t *testing.T) {
	x := []float64{0, 0.5, 2}
	y := []float64{1, 2, 2}

	xNew, yNew, err := Discretise1D(x, y, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, xNew)
	assert.Equal(t, []float64{1, 2, 2, 2, 2}, yNew)
}

func TestDiscretise1DRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		n    int
	}{
		{"length mismatch", []float64{0, 1}, []float64{0}, 4},
		{"single sample", []float64{0}, []float64{0}, 4},
		{"too few outputs", []float64{0, 1}, []float64{0, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Discretise1D(tt.x, tt.y, tt.n)
			require.Error(t, err)
			assert.True(t, faults.IsConfiguration(err))
		})
	}
}

func TestResample(t *testing.T) {
	got, err := Resample([]float64{0, 2}, []float64{0, 4}, []float64{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4}, got)

	_, err = Resample([]float64{0, 2}, []float64{0}, []float64{0})
	assert.True(t, faults.IsConfiguration(err))
}
