package flow

import (
	"math"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/units"
)

// splitTolerance absorbs rounding when fractions are meant to sum to one.
const splitTolerance = 1e-12

// Flow is a mass rate on an Axis delayed by a transit time.
type Flow struct {
	axis  *Axis
	rate  []float64
	delay float64
	out   []float64
}

// NewFlow builds a flow from rate [kg/s] delayed by delay [s]. The realised
// output is the rate shifted by the sample offset nearest to the delay and
// attenuated by radioactive decay over the delay. Tritium shifted past the
// end of the axis is dropped.
func (a *Axis) NewFlow(rate []float64, delay float64) (*Flow, error) {
	if err := a.checkLen("flow rate", len(rate)); err != nil {
		return nil, err
	}
	if delay < 0 || math.IsNaN(delay) || math.IsInf(delay, 0) {
		return nil, faults.Configf("flow delay", "must be a finite non-negative number of seconds, got %g", delay)
	}
	f := &Flow{axis: a, rate: rate, delay: delay}
	f.out = f.realise()
	return f, nil
}

func (f *Flow) realise() []float64 {
	n := len(f.rate)
	out := make([]float64, n)
	if f.delay == 0 {
		copy(out, f.rate)
		return out
	}
	delayYr := f.delay * units.SecondToYear
	t := f.axis.t
	shift := 0
	bestGap := math.Inf(1)
	for i := range t {
		gap := math.Abs(t[i] - t[0] - delayYr)
		if gap < bestGap {
			bestGap, shift = gap, i
		}
	}
	decay := math.Exp(-f.axis.lambda * delayYr)
	for i := shift; i < n; i++ {
		out[i] = f.rate[i-shift] * decay
	}
	return out
}

// Axis returns the flow's axis.
func (f *Flow) Axis() *Axis { return f.axis }

// Out returns the realised (delayed, decayed) output rate. Callers must not
// modify it.
func (f *Flow) Out() []float64 { return f.out }

// Add returns the element-wise sum of both realised outputs as an undelayed
// flow. The flows must share an axis.
func (f *Flow) Add(g *Flow) (*Flow, error) {
	if !f.axis.sameAs(g.axis) {
		return nil, faults.Configf("flow add", "flows are defined on different axes")
	}
	sum := make([]float64, len(f.out))
	for i := range sum {
		sum[i] = f.out[i] + g.out[i]
	}
	return f.axis.NewFlow(sum, 0)
}

// Split divides the realised output into n undelayed flows. fractions holds
// the weights of the first n-1 flows; the last flow receives the remainder.
func (f *Flow) Split(n int, fractions []float64) ([]*Flow, error) {
	if n < 2 {
		return nil, faults.Configf("flow split", "need at least 2 sub-flows, got %d", n)
	}
	if len(fractions) != n-1 {
		return nil, faults.Configf("flow split", "need %d fractions for %d sub-flows, got %d", n-1, n, len(fractions))
	}
	total := 0.0
	for i, fr := range fractions {
		if !(fr >= 0 && fr <= 1) {
			return nil, faults.Configf("flow split", "fraction %d is %g, outside [0, 1]", i, fr)
		}
		total += fr
	}
	if total > 1+splitTolerance {
		return nil, faults.Configf("flow split", "fractions sum to %g > 1", total)
	}
	weights := append(append([]float64(nil), fractions...), math.Max(0, 1-total))

	flows := make([]*Flow, n)
	for k, w := range weights {
		part := make([]float64, len(f.out))
		for i, v := range f.out {
			part[i] = w * v
		}
		sub, err := f.axis.NewFlow(part, 0)
		if err != nil {
			return nil, err
		}
		flows[k] = sub
	}
	return flows, nil
}
