package store

import (
	"math"

	"github.com/roach88/tritium/internal/engine"
)

// Run is the stored summary of one fuel cycle run.
type Run struct {
	ID        string `json:"id"`
	Seq       int64  `json:"seq"`
	InputHash string `json:"input_hash"`
	Label     string `json:"label"`

	// Params is the canonical JSON of the parameter set.
	Params string `json:"params"`

	Timestep      float64 `json:"timestep"`
	CoarseSamples int     `json:"coarse_samples"`
	FineSamples   int     `json:"fine_samples"`

	StartupInventory float64 `json:"startup_inventory"`

	// DoublingTime is +Inf when the run never doubles; it is stored as NULL.
	DoublingTime    float64 `json:"doubling_time"`
	DoublingIndex   int     `json:"doubling_index"`
	InflectionTime  float64 `json:"inflection_time"`
	InflectionIndex int     `json:"inflection_index"`
	ReleaseRate     float64 `json:"release_rate"`
	MaxLoadFactor   float64 `json:"max_load_factor"`

	Bred     float64 `json:"bred"`
	Released float64 `json:"released"`
	Burnt    float64 `json:"burnt"`

	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`
}

// Iteration is one entry of a run's seed history.
type Iteration struct {
	N        int     `json:"n"`
	Seed     float64 `json:"seed"`
	Residual float64 `json:"residual"`
}

// Extremum is one bin of a maxima or minima envelope.
type Extremum struct {
	Kind  string  `json:"kind"`
	Bin   int     `json:"bin"`
	Index int     `json:"index"`
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Extremum kinds.
const (
	KindMax = "max"
	KindMin = "min"
)

// Record is everything written for one run.
type Record struct {
	Run        Run
	Iterations []Iteration
	Extrema    []Extremum
}

// NewRecord builds a Record from an engine result. ID and Seq are assigned
// by WriteRun.
func NewRecord(res *engine.Result, inputHash, label, paramsJSON string, timestep float64) Record {
	run := Run{
		InputHash:        inputHash,
		Label:            label,
		Params:           paramsJSON,
		Timestep:         timestep,
		CoarseSamples:    len(res.Coarse),
		FineSamples:      len(res.Time),
		StartupInventory: res.StartupInventory,
		DoublingTime:     res.DoublingTime,
		DoublingIndex:    res.DoublingIndex,
		InflectionTime:   res.InflectionTime,
		InflectionIndex:  res.InflectionIndex,
		ReleaseRate:      res.ReleaseRate,
		MaxLoadFactor:    res.MaxLoadFactor,
		Bred:             res.Bred,
		Released:         res.Released,
		Burnt:            res.Burnt,
		Iterations:       res.Iterations,
		Converged:        res.Converged,
	}
	rec := Record{Run: run}
	for i, seed := range res.Seeds {
		rec.Iterations = append(rec.Iterations, Iteration{N: i + 1, Seed: seed, Residual: res.Residuals[i]})
	}
	rec.Extrema = append(rec.Extrema, envelope(KindMax, res.Maxima, res.Time)...)
	rec.Extrema = append(rec.Extrema, envelope(KindMin, res.Minima, res.Time)...)
	return rec
}

func envelope(kind string, e engine.Extrema, t []float64) []Extremum {
	out := make([]Extremum, len(e.Index))
	for b, idx := range e.Index {
		out[b] = Extremum{Kind: kind, Bin: b, Index: idx, Time: t[idx], Value: e.Value[b]}
	}
	return out
}

// nullableFloat maps non-finite values to SQL NULL.
func nullableFloat(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return f
}
