package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/units"
)

func TestMaxLoadFactor(t *testing.T) {
	// Two calendar years at 50% availability, then one year flat out.
	years := []float64{0, 2, 3}
	fpy := []float64{0, 1, 2}

	a, err := MaxLoadFactor(years, fpy)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, a, 1e-12)

	a, err = MaxLoadFactor([]float64{0, 4}, []float64{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, a, 1e-12)
}

func TestMaxLoadFactorCapsAtOne(t *testing.T) {
	a, err := MaxLoadFactor([]float64{0, 1}, []float64{0, 3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, a)
}

func TestMaxLoadFactorZeroSpan(t *testing.T) {
	_, err := MaxLoadFactor([]float64{2, 2}, []float64{0, 0})
	assert.True(t, faults.IsNumericDomain(err))

	_, err = MaxLoadFactor([]float64{0}, []float64{0})
	assert.True(t, faults.IsConfiguration(err))
}

func TestLegalLimitPerfectExtractionReleasesNothing(t *testing.T) {
	rate, err := LegalLimit(ReleaseInputs{
		MaxLoadFactor:      1,
		BurnFraction:       0.015,
		GasRate:            0.1,
		FuellingEfficiency: 0.5,
		FuelPumpEfficiency: 0.9,
		DirectFraction:     0.9,
		ExhaustSplit:       1,
		DetritiationSplit:  0.9999,
		ExtractionFactor:   1,
		TBR:                1.05,
		BurnRate:           0.01,
	})
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestLegalLimitBlanketRoute(t *testing.T) {
	in := ReleaseInputs{
		MaxLoadFactor:      0.5,
		BurnFraction:       1,
		FuellingEfficiency: 1,
		FuelPumpEfficiency: 1,
		DirectFraction:     1,
		ExtractionFactor:   0.9,
		TBR:                2,
		BurnRate:           1e-3,
	}
	rate, err := LegalLimit(in)
	require.NoError(t, err)
	want := 0.5 * units.YearToSecond * 2 * 1e-3 * 0.1
	assert.InDelta(t, want, rate, want*1e-12)
}

func TestLegalLimitZeroDenominators(t *testing.T) {
	_, err := LegalLimit(ReleaseInputs{BurnFraction: 0, FuellingEfficiency: 1})
	assert.True(t, faults.IsNumericDomain(err))

	_, err = LegalLimit(ReleaseInputs{BurnFraction: 1, FuellingEfficiency: 0})
	assert.True(t, faults.IsNumericDomain(err))
}
