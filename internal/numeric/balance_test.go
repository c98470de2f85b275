package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/tritium/internal/units"
)

func TestMassBalanceDecayOnly(t *testing.T) {
	tAxis := Linspace(0, 2*units.TritiumHalfLife, 3)
	zero := make([]float64, 3)

	m := MassBalance(8, tAxis, zero, zero, units.TritiumDecayConstant)
	assert.Equal(t, 8.0, m[0])
	assert.InDelta(t, 4, m[1], 1e-12)
	assert.InDelta(t, 2, m[2], 1e-12)
}

func TestMassBalanceDecaysBeforeAddingFlows(t *testing.T) {
	tAxis := []float64{0, 1}
	in := []float64{0, 1e-9}
	out := []float64{0, 3e-9}
	lambda := 0.1

	m := MassBalance(5, tAxis, in, out, lambda)
	want := 5*math.Exp(-lambda) - 1e-9*units.YearToSecond + 3e-9*units.YearToSecond
	assert.Equal(t, want, m[1])
}

func TestMassBalanceNoDecayIsCumulativeSum(t *testing.T) {
	tAxis := Linspace(0, 1, 11)
	in := make([]float64, 11)
	for i := range in {
		in[i] = 1e-8
	}
	zero := make([]float64, 11)

	m := MassBalance(10, tAxis, in, zero, 0)
	assert.InDelta(t, 10-1e-8*units.YearToSecond, m[10], 1e-9)
	assert.InDelta(t, m[10], 10-Integrate(tAxis, in)[10], 1e-12)
}

func TestMassBalanceEmptyAxis(t *testing.T) {
	assert.Empty(t, MassBalance(1, nil, nil, nil, 0))
}
