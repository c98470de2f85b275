package numeric

import (
	"math"

	"github.com/roach88/tritium/internal/units"
)

// MassBalance evolves a decaying inventory seeded with seed [kg] over the
// uniform axis t [yr]. At every step the previous inventory first decays
// with constant lambda [1/yr], then the outflow mIn is withdrawn and the
// inflow mOut is added, both in kg/s:
//
//	m[i] = m[i-1]*exp(-lambda*dt) - mIn[i]*dt*Y + mOut[i]*dt*Y
//
// mIn and mOut must have len(t) samples.
func MassBalance(seed float64, t, mIn, mOut []float64, lambda float64) []float64 {
	m := make([]float64, len(t))
	if len(t) == 0 {
		return m
	}
	m[0] = seed
	for i := 1; i < len(t); i++ {
		dt := t[i] - t[i-1]
		m[i] = m[i-1]*math.Exp(-lambda*dt) - mIn[i]*dt*units.YearToSecond + mOut[i]*dt*units.YearToSecond
	}
	return m
}

// Integrate returns the running integral of a rate [kg/s] over t [yr] using
// the same right-endpoint rule as the inventory recursions, in kg.
func Integrate(t, rate []float64) []float64 {
	out := make([]float64, len(t))
	for i := 1; i < len(t); i++ {
		out[i] = out[i-1] + rate[i]*(t[i]-t[i-1])*units.YearToSecond
	}
	return out
}
