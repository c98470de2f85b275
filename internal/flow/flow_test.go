package flow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/numeric"
	"github.com/roach88/tritium/internal/units"
)

// hourAxis returns n samples spaced one hour apart.
func hourAxis(n int, lambda float64) *Axis {
	step := 3600 * units.SecondToYear
	return NewAxis(numeric.Linspace(0, float64(n-1)*step, n), lambda)
}

func TestNewFlowRejectsLengthMismatch(t *testing.T) {
	a := hourAxis(4, 0)
	_, err := a.NewFlow([]float64{1, 2}, 0)
	require.Error(t, err)
	assert.True(t, faults.IsConfiguration(err))
}

func TestNewFlowRejectsBadDelay(t *testing.T) {
	a := hourAxis(4, 0)
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := a.NewFlow(make([]float64, 4), d)
		assert.True(t, faults.IsConfiguration(err), "delay %g", d)
	}
}

func TestFlowUndelayedIsCopy(t *testing.T) {
	a := hourAxis(3, units.TritiumDecayConstant)
	rate := []float64{1, 2, 3}
	f, err := a.NewFlow(rate, 0)
	require.NoError(t, err)
	assert.Equal(t, rate, f.Out())

	rate[0] = 99
	assert.Equal(t, 1.0, f.Out()[0])
}

func TestFlowDelayShiftsAndTruncates(t *testing.T) {
	a := hourAxis(5, 0)
	f, err := a.NewFlow([]float64{1, 2, 3, 4, 5}, 2*3600)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 2, 3}, f.Out())
	assert.Equal(t, 7200.0, f.delay)
}

func TestFlowDelaySnapsToNearestSample(t *testing.T) {
	a := hourAxis(4, 0)
	f, err := a.NewFlow([]float64{1, 1, 1, 1}, 4000)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1, 1}, f.Out())
}

func TestFlowDelayDecays(t *testing.T) {
	lambda := 0.5
	a := hourAxis(3, lambda)
	f, err := a.NewFlow([]float64{2, 2, 2}, 3600)
	require.NoError(t, err)

	want := 2 * math.Exp(-lambda*3600*units.SecondToYear)
	assert.Equal(t, 0.0, f.Out()[0])
	assert.InDelta(t, want, f.Out()[1], 1e-15)
	assert.InDelta(t, want, f.Out()[2], 1e-15)
}

func TestFlowDelayBeyondAxisClampsToLastSample(t *testing.T) {
	a := hourAxis(3, 0)
	f, err := a.NewFlow([]float64{1, 1, 1}, 1e9)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, f.Out())
}

func TestFlowAdd(t *testing.T) {
	a := hourAxis(3, 0)
	f, _ := a.NewFlow([]float64{1, 2, 3}, 0)
	g, _ := a.NewFlow([]float64{1, 1, 1}, 3600)

	sum, err := f.Add(g)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 4}, sum.Out())
	assert.Zero(t, sum.delay)
}

func TestFlowAddRejectsDifferentAxes(t *testing.T) {
	f, _ := hourAxis(3, 0).NewFlow([]float64{1, 2, 3}, 0)
	g, _ := NewAxis([]float64{0, 1, 2}, 0).NewFlow([]float64{1, 2, 3}, 0)

	_, err := f.Add(g)
	assert.True(t, faults.IsConfiguration(err))
}

func TestFlowAddAcceptsEqualAxes(t *testing.T) {
	f, _ := NewAxis([]float64{0, 1}, 0).NewFlow([]float64{1, 2}, 0)
	g, _ := NewAxis([]float64{0, 1}, 0).NewFlow([]float64{3, 4}, 0)

	sum, err := f.Add(g)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, sum.Out())
}

func TestFlowSplitConserves(t *testing.T) {
	a := hourAxis(4, 0)
	f, _ := a.NewFlow([]float64{1, 2, 3, 4}, 0)

	parts, err := f.Split(2, []float64{0.9})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	for i, v := range f.Out() {
		assert.InDelta(t, 0.9*v, parts[0].Out()[i], 1e-15)
		assert.InDelta(t, 0.1*v, parts[1].Out()[i], 1e-15)
		assert.InDelta(t, v, parts[0].Out()[i]+parts[1].Out()[i], 1e-15)
	}
}

func TestFlowSplitRemainder(t *testing.T) {
	f, _ := hourAxis(2, 0).NewFlow([]float64{10, 10}, 0)

	parts, err := f.Split(3, []float64{0.5, 0.3})
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.InDelta(t, 5, parts[0].Out()[1], 1e-12)
	assert.InDelta(t, 3, parts[1].Out()[1], 1e-12)
	assert.InDelta(t, 2, parts[2].Out()[1], 1e-12)
}

func TestFlowSplitRejectsBadFractions(t *testing.T) {
	f, _ := hourAxis(2, 0).NewFlow([]float64{1, 1}, 0)

	tests := []struct {
		name      string
		n         int
		fractions []float64
	}{
		{"too few flows", 1, nil},
		{"wrong count", 3, []float64{0.5}},
		{"negative", 2, []float64{-0.1}},
		{"above one", 2, []float64{1.5}},
		{"sum above one", 3, []float64{0.6, 0.6}},
		{"nan", 2, []float64{math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Split(tt.n, tt.fractions)
			require.Error(t, err)
			assert.True(t, faults.IsConfiguration(err))
		})
	}
}
