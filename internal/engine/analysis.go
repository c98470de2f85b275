package engine

import (
	"math"

	"github.com/roach88/tritium/internal/numeric"
	"github.com/roach88/tritium/internal/units"
)

const (
	// samplesPerBin and minBins size the extremum envelope.
	samplesPerBin = 4500
	minBins       = 400

	// doublingWindow is the half-width of the neighbourhood that must reach
	// the doubling threshold for a crossing to count.
	doublingWindow = 10
)

// Finalise post-processes a realised inventory curve in place and extracts
// its scalars.
//
// The maxima envelope is computed first and the final sample is raised to
// the last local maximum, so that all tritium is back in the store at the
// end of the plant life. Minima, doubling and inflection times are then read
// from the corrected curve. Applying Finalise twice yields the same
// Analysis.
func Finalise(t, inventory []float64, tfvFloor float64) Analysis {
	var a Analysis
	n := len(inventory)
	if n == 0 {
		a.DoublingTime, a.DoublingIndex = math.Inf(1), -1
		a.InflectionIndex = -1
		return a
	}
	bins := max(n/samplesPerBin, minBins)

	idx, vals := numeric.FindNoisyLocals(inventory, bins, numeric.Maxima)
	a.Maxima = Extrema{Index: idx, Value: vals}
	inventory[n-1] = vals[len(vals)-1]

	idx, vals = numeric.FindNoisyLocals(inventory, bins, numeric.Minima)
	a.Minima = Extrema{Index: idx, Value: vals}

	a.DoublingIndex, a.DoublingTime = DoublingTime(t, inventory, tfvFloor)
	a.InflectionIndex, a.InflectionTime = InflectionTime(t, inventory)
	return a
}

// DoublingTime returns the time after which the curve last climbs back to
// its starting level plus tfvFloor. It returns (-1, +Inf) when the curve
// never settles at or below that threshold after its first sample, or when
// the crossing is not confirmed by a nearby sample at or above it.
func DoublingTime(t, inventory []float64, tfvFloor float64) (int, float64) {
	n := len(inventory)
	if n < 2 {
		return -1, math.Inf(1)
	}
	threshold := inventory[0] + tfvFloor

	j := -1
	for i := n - 1; i >= 1; i-- {
		if inventory[i] <= threshold {
			j = i
			break
		}
	}
	if j < 0 {
		return -1, math.Inf(1)
	}

	arg := j + 1
	lo, hi := max(arg-doublingWindow, 0), min(arg+doublingWindow, n)
	reached := false
	for _, v := range inventory[lo:hi] {
		if v >= threshold {
			reached = true
			break
		}
	}
	if !reached {
		return -1, math.Inf(1)
	}
	if arg >= n {
		return n - 1, t[n-1]
	}
	return arg, t[arg]
}

// InflectionTime returns the index and time of the first global minimum.
func InflectionTime(t, inventory []float64) (int, float64) {
	i := numeric.ArgMin(inventory)
	if i < 0 {
		return -1, math.NaN()
	}
	return i, t[i]
}

// IdealInventory evolves a plant inventory with no sequestration anywhere:
// bred and D-D tritium arrive instantly, burnt tritium leaves instantly, and
// the stock decays with lambda [1/yr]. Rates are in kg/s on t [yr].
func IdealInventory(t, brate, prate []float64, tbr, start, lambda float64) []float64 {
	out := make([]float64, len(t))
	if len(t) == 0 {
		return out
	}
	out[0] = start
	for i := 1; i < len(t); i++ {
		dt := t[i] - t[i-1]
		w := dt * units.YearToSecond
		out[i] = out[i-1]*math.Exp(-lambda*dt) + (tbr*brate[i]+prate[i]-brate[i])*w
	}
	return out
}
