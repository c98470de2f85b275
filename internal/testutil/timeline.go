package testutil

import (
	"github.com/roach88/tritium/internal/numeric"
	"github.com/roach88/tritium/internal/timeline"
	"github.com/roach88/tritium/internal/units"
)

// DemoDTRate is the D-T reaction rate of a ~2 GW fusion plant [1/s].
const DemoDTRate = 7e20

// UniformTimeline returns n evenly spaced samples over years with constant
// reaction rates. Fusion time accumulates at loadFactor.
func UniformTimeline(years float64, n int, dtRate, ddRate, loadFactor float64) *timeline.Timeline {
	t := numeric.Linspace(0, years, n)
	tl := &timeline.Timeline{
		Time:       t,
		FusionTime: make([]float64, n),
		DTRate:     make([]float64, n),
		DDRate:     make([]float64, n),
		LoadFactor: loadFactor,
	}
	for i := range t {
		tl.FusionTime[i] = loadFactor * t[i]
		tl.DTRate[i] = dtRate
		tl.DDRate[i] = ddRate
	}
	return tl
}

// PulsedTimeline returns one sample per day over days days. The plant burns
// at dtRate for on days and rests for off days, starting with a burn on
// day 1. D-D rates are a hundredth of the D-T rate.
func PulsedTimeline(days, on, off int, dtRate float64, blanketChanges ...int) *timeline.Timeline {
	n := days + 1
	tl := &timeline.Timeline{
		Time:           make([]float64, n),
		FusionTime:     make([]float64, n),
		DTRate:         make([]float64, n),
		DDRate:         make([]float64, n),
		LoadFactor:     float64(on) / float64(on+off),
		BlanketChanges: blanketChanges,
	}
	day := 86400 * units.SecondToYear
	for i := 1; i < n; i++ {
		tl.Time[i] = float64(i) * day
		tl.FusionTime[i] = tl.FusionTime[i-1]
		if (i-1)%(on+off) < on {
			tl.DTRate[i] = dtRate
			tl.DDRate[i] = dtRate / 100
			tl.FusionTime[i] += day
		}
	}
	return tl
}
