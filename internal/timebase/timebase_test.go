package timebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/numeric"
	"github.com/roach88/tritium/internal/units"
)

func TestNewRejectsBadAxes(t *testing.T) {
	tests := []struct {
		name string
		axis []float64
	}{
		{"empty", nil},
		{"single", []float64{0}},
		{"flat", []float64{0, 1, 1}},
		{"decreasing", []float64{0, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.axis)
			require.Error(t, err)
			assert.True(t, faults.IsConfiguration(err))
		})
	}
}

func TestNewCopiesAxis(t *testing.T) {
	axis := []float64{0, 1, 2}
	tb, err := New(axis)
	require.NoError(t, err)
	axis[1] = 99
	assert.Equal(t, []float64{0, 1, 2}, tb.Coarse())
	assert.Equal(t, 2.0, tb.Span())
}

func TestFineHonoursTimestep(t *testing.T) {
	tb, err := New([]float64{0, 0.3, 1})
	require.NoError(t, err)

	day := 86400.0
	fine, err := tb.Fine(day)
	require.NoError(t, err)

	// 365.25 days rounds to 365 steps.
	assert.Len(t, fine, 366)
	assert.Equal(t, 0.0, fine[0])
	assert.Equal(t, 1.0, fine[len(fine)-1])
}

func TestFineMatchesUniformCoarse(t *testing.T) {
	coarse := numeric.Linspace(0, 2, 9)
	tb, err := New(coarse)
	require.NoError(t, err)

	step := 2 * units.YearToSecond / 8
	fine, err := tb.Fine(step)
	require.NoError(t, err)
	assert.Equal(t, coarse, fine)
}

func TestFineRejectsBadTimestep(t *testing.T) {
	tb, err := New([]float64{0, 1})
	require.NoError(t, err)

	for _, step := range []float64{0, -1, 10 * units.YearToSecond} {
		_, err := tb.Fine(step)
		assert.True(t, faults.IsConfiguration(err), "timestep %g", step)
	}
}

func TestResample(t *testing.T) {
	tb, err := New([]float64{0, 1})
	require.NoError(t, err)

	got, err := tb.Resample([]float64{0, 10}, []float64{0, 0.5, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 10}, got)
}
