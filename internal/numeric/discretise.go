package numeric

import (
	"sort"

	"github.com/roach88/tritium/internal/faults"
)

// Linspace returns n evenly spaced samples over [start, stop]. The last
// sample is exactly stop.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Interp linearly interpolates the series (x, y) at each query point. x must
// be strictly increasing. Queries outside [x[0], x[len-1]] are clamped to the
// end values. A query equal to a knot returns that knot's value exactly.
func Interp(x, y, query []float64) []float64 {
	out := make([]float64, len(query))
	last := len(x) - 1
	for i, q := range query {
		switch {
		case q <= x[0]:
			out[i] = y[0]
		case q >= x[last]:
			out[i] = y[last]
		default:
			// k is the first knot strictly greater than q
			k := sort.Search(len(x), func(j int) bool { return x[j] > q })
			lo := k - 1
			frac := (q - x[lo]) / (x[k] - x[lo])
			out[i] = y[lo] + frac*(y[k]-y[lo])
		}
	}
	return out
}

// Discretise1D maps an irregular series onto n uniformly spaced samples
// covering the same span.
func Discretise1D(x, y []float64, n int) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, faults.Configf("discretise", "axis has %d samples but values have %d", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, nil, faults.Configf("discretise", "need at least 2 samples, got %d", len(x))
	}
	if n < 2 {
		return nil, nil, faults.Configf("discretise", "need at least 2 output samples, got %d", n)
	}
	xNew := Linspace(x[0], x[len(x)-1], n)
	return xNew, Interp(x, y, xNew), nil
}

// Resample interpolates y (defined on x) onto an existing axis.
func Resample(x, y, onto []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, faults.Configf("resample", "axis has %d samples but values have %d", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, faults.Configf("resample", "need at least 2 samples, got %d", len(x))
	}
	return Interp(x, y, onto), nil
}
