package numeric

import (
	"math"

	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/units"
)

// MaxLoadFactor estimates the highest load factor reached over a timeline
// from calendar time [yr] and fusion-equivalent elapsed time [fpy]. The
// fusion time is resampled onto roughly yearly samples and the steepest
// forward slope is returned, capped to [0, 1].
func MaxLoadFactor(timeYears, fusionYears []float64) (float64, error) {
	if len(timeYears) < 2 || len(timeYears) != len(fusionYears) {
		return 0, faults.Configf("fusion_time", "need matching series of at least 2 samples")
	}
	span := timeYears[len(timeYears)-1] - timeYears[0]
	if span <= 0 {
		return 0, faults.Domainf("load factor", "timeline span is %g yr", span)
	}
	n := int(math.Ceil(span)) + 1
	if n < 2 {
		n = 2
	}
	t, rt, err := Discretise1D(timeYears, fusionYears, n)
	if err != nil {
		return 0, err
	}
	best := 0.0
	for i := 1; i < n; i++ {
		slope := (rt[i] - rt[i-1]) / (t[i] - t[i-1])
		if slope > best {
			best = slope
		}
	}
	if best > 1 {
		best = 1
	}
	return best, nil
}

// ReleaseInputs gathers the plant quantities that set the steady-state
// environmental release. Rates are in g/s.
type ReleaseInputs struct {
	MaxLoadFactor      float64
	BurnFraction       float64 // f_b
	GasRate            float64 // peak gas puff [g/s]
	FuellingEfficiency float64 // eta_f
	FuelPumpEfficiency float64 // eta_fuel_pump
	DirectFraction     float64 // f_dir
	ExhaustSplit       float64 // f_exh_split
	DetritiationSplit  float64 // f_detrit_split
	ExtractionFactor   float64 // f_terscwps
	TBR                float64
	BurnRate           float64 // peak burn rate [g/s]
}

// LegalLimit returns the tritium release rate to the environment [g/yr]
// implied by peak operation at the highest load factor. Two routes reach the
// stack: unextracted plasma exhaust passing through the indirect loop and
// detritiation, and bred tritium escaping extraction and coolant purification.
func LegalLimit(in ReleaseInputs) (float64, error) {
	if in.BurnFraction == 0 {
		return 0, faults.Domainf("release rate", "burn-up fraction is zero")
	}
	if in.FuellingEfficiency == 0 {
		return 0, faults.Domainf("release rate", "fuelling efficiency is zero")
	}
	fuelled := in.BurnRate / (in.BurnFraction * in.FuellingEfficiency)
	lineLoss := fuelled * (1 - in.FuellingEfficiency) * (1 - in.FuelPumpEfficiency)
	exhaust := in.BurnRate/in.BurnFraction - in.BurnRate + in.GasRate + lineLoss
	exhaustStack := exhaust * (1 - in.DirectFraction) * (1 - in.ExhaustSplit) * (1 - in.DetritiationSplit)
	blanketStack := in.TBR * in.BurnRate * (1 - in.ExtractionFactor)
	rate := in.MaxLoadFactor * units.YearToSecond * (exhaustStack + blanketStack)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, faults.Domainf("release rate", "non-finite result %g", rate)
	}
	return rate, nil
}
