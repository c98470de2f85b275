package flow

import "github.com/roach88/tritium/internal/faults"

// Axis is a time axis [yr] together with the decay constant [1/yr] applied
// to tritium held or delayed on it.
type Axis struct {
	t      []float64
	lambda float64
}

// NewAxis wraps t. The slice is shared, not copied; callers must not modify
// it afterwards.
func NewAxis(t []float64, lambda float64) *Axis {
	return &Axis{t: t, lambda: lambda}
}

// Len returns the number of samples.
func (a *Axis) Len() int { return len(a.t) }

// sameAs reports whether two axes sample identical times.
func (a *Axis) sameAs(b *Axis) bool {
	if a == b {
		return true
	}
	if len(a.t) != len(b.t) {
		return false
	}
	for i := range a.t {
		if a.t[i] != b.t[i] {
			return false
		}
	}
	return true
}

func (a *Axis) checkLen(what string, n int) error {
	if n != len(a.t) {
		return faults.Configf(what, "has %d samples, axis has %d", n, len(a.t))
	}
	return nil
}
