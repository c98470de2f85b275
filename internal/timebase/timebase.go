// Package timebase models the two time resolutions of the fuel cycle as one
// concept. The coarse axis is the irregular lifecycle timeline; the fine axis
// is a uniform resampling of it at a configured timestep, on which the
// fuel-processing systems are simulated.
//
// The fine axis is always derived deterministically from the coarse one:
// n = round(span * YearToSecond / timestep) steps, i.e. n+1 samples spanning
// exactly [coarse[0], coarse[len-1]].
package timebase

import (
	"math"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/numeric"
	"github.com/roach88/tritium/internal/units"
)

// Timebase owns a coarse time axis [yr].
type Timebase struct {
	coarse []float64
}

// New validates and wraps a coarse axis. The axis must hold at least two
// strictly increasing samples.
func New(coarse []float64) (*Timebase, error) {
	if len(coarse) < 2 {
		return nil, faults.Configf("timeline.time", "need at least 2 samples, got %d", len(coarse))
	}
	for i := 1; i < len(coarse); i++ {
		if !(coarse[i] > coarse[i-1]) {
			return nil, faults.Configf("timeline.time", "not strictly increasing at index %d (%g after %g)", i, coarse[i], coarse[i-1])
		}
	}
	c := make([]float64, len(coarse))
	copy(c, coarse)
	return &Timebase{coarse: c}, nil
}

// Coarse returns the coarse axis. Callers must not modify it.
func (tb *Timebase) Coarse() []float64 {
	return tb.coarse
}

// Span returns the covered duration [yr].
func (tb *Timebase) Span() float64 {
	return tb.coarse[len(tb.coarse)-1] - tb.coarse[0]
}

// Steps returns the number of fine timesteps for timestep [s].
func (tb *Timebase) Steps(timestep float64) (int, error) {
	if !(timestep > 0) || math.IsInf(timestep, 0) {
		return 0, faults.Configf("timestep", "must be a positive finite number of seconds, got %g", timestep)
	}
	n := int(math.Round(tb.Span() * units.YearToSecond / timestep))
	if n < 1 {
		return 0, faults.Configf("timestep", "%g s is longer than the %g yr timeline", timestep, tb.Span())
	}
	return n, nil
}

// Fine returns the uniform axis for timestep [s].
func (tb *Timebase) Fine(timestep float64) ([]float64, error) {
	n, err := tb.Steps(timestep)
	if err != nil {
		return nil, err
	}
	return numeric.Linspace(tb.coarse[0], tb.coarse[len(tb.coarse)-1], n+1), nil
}

// Resample maps a coarse-axis series onto fine.
func (tb *Timebase) Resample(values, fine []float64) ([]float64, error) {
	return numeric.Resample(tb.coarse, values, fine)
}
