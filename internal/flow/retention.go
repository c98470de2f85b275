package flow

import (
	"math"

	"github.com/roach88/tritium/internal/faults"
)

// Model identifies a retention law.
type Model int

const (
	// Bathtub retains a fixed share of each step's inflow until the ceiling
	// is reached; everything above the ceiling is released.
	Bathtub Model = iota + 1

	// SqrtBathtub scales the retained share by 1 - sqrt(I/ceiling), so
	// uptake slows as the inventory approaches the ceiling.
	SqrtBathtub

	// Fountaintub fills to a floor before releasing anything, then behaves
	// as a bathtub between floor and ceiling.
	Fountaintub
)

var modelNames = map[Model]string{
	Bathtub:     "bathtub",
	SqrtBathtub: "sqrt_bathtub",
	Fountaintub: "fountaintub",
}

// String returns the retention model identifier.
func (m Model) String() string {
	if s, ok := modelNames[m]; ok {
		return s
	}
	return "unknown"
}

// Retention configures how a Block holds tritium.
type Retention struct {
	Model Model

	// Eta is the share of each step's inflow released straight through.
	// 1-Eta is retained, subject to the ceiling.
	Eta float64

	// Ceiling is the maximum inventory [kg]. math.Inf(1) means unbounded.
	Ceiling float64

	// Floor is the fountain inventory [kg] held before any release. Only
	// used by Fountaintub, which also starts pre-filled to it.
	Floor float64

	// Events lists axis indices at which the whole inventory is discharged
	// into the output (blanket changes).
	Events []int
}

func (r Retention) validate(axis *Axis) error {
	if _, ok := modelNames[r.Model]; !ok {
		return faults.Configf("retention_model", "unknown retention model %d", int(r.Model))
	}
	if !(r.Eta >= 0 && r.Eta <= 1) {
		return faults.Configf("eta", "must lie in [0, 1], got %g", r.Eta)
	}
	if !(r.Ceiling >= 0) {
		return faults.Configf("ceiling", "must be non-negative, got %g", r.Ceiling)
	}
	if r.Model == SqrtBathtub && r.Ceiling == 0 {
		return faults.Domainf("sqrt_bathtub ceiling", "inventory ceiling is zero")
	}
	if r.Model == Fountaintub {
		if !(r.Floor >= 0) || math.IsInf(r.Floor, 0) {
			return faults.Configf("floor", "must be finite and non-negative, got %g", r.Floor)
		}
		if r.Floor > r.Ceiling {
			return faults.Configf("floor", "floor %g exceeds ceiling %g", r.Floor, r.Ceiling)
		}
	}
	for _, e := range r.Events {
		if e < 0 || e >= axis.Len() {
			return faults.Configf("events", "index %d outside axis of %d samples", e, axis.Len())
		}
	}
	return nil
}

// initial returns the inventory at the first sample.
func (r Retention) initial() float64 {
	if r.Model == Fountaintub {
		return r.Floor
	}
	return 0
}

// retain returns the inventory after one step, given the decayed inventory
// held and the step's inflow mass mIn [kg].
func (r Retention) retain(held, mIn float64) float64 {
	keep := 1 - r.Eta
	next := held
	switch r.Model {
	case Bathtub:
		next += keep * mIn
	case SqrtBathtub:
		fill := math.Min(math.Max(held/r.Ceiling, 0), 1)
		next += keep * mIn * (1 - math.Sqrt(fill))
	case Fountaintub:
		avail := mIn
		if next < r.Floor && avail > 0 {
			top := math.Min(r.Floor-next, avail)
			next += top
			avail -= top
		}
		next += keep * avail
	}
	return math.Min(math.Max(next, 0), r.Ceiling)
}
