// Package timeline holds the reactor lifecycle timeline that drives a fuel
// cycle run: the coarse time axis, cumulative fusion time, reaction rates,
// global load factor and blanket change events.
//
// Timelines are produced elsewhere (the lifecycle generator is out of scope)
// and read here from YAML or JSON files.
package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tritium/internal/faults"
)

// Timeline is a reactor lifecycle sampled on an irregular axis.
type Timeline struct {
	// Time is the elapsed plant lifetime [yr], strictly increasing.
	Time []float64 `yaml:"time" json:"time"`

	// FusionTime is the cumulative full-power time [yr] at each sample.
	FusionTime []float64 `yaml:"fusion_time" json:"fusion_time"`

	// DTRate is the D-T reaction rate [1/s].
	DTRate []float64 `yaml:"DT_rate" json:"DT_rate"`

	// DDRate is the D-D reaction rate [1/s].
	DDRate []float64 `yaml:"DD_rate" json:"DD_rate"`

	// LoadFactor is the lifetime-averaged load factor.
	LoadFactor float64 `yaml:"A_global" json:"A_global"`

	// BlanketChanges lists indices into Time at which the blanket is
	// replaced.
	BlanketChanges []int `yaml:"blanket_change_index" json:"blanket_change_index"`
}

// Len returns the number of samples.
func (tl *Timeline) Len() int { return len(tl.Time) }

// Validate checks the shape invariants. It reports the first violation as a
// *faults.ConfigurationError.
func (tl *Timeline) Validate() error {
	n := len(tl.Time)
	if n < 2 {
		return faults.Configf("timeline.time", "need at least 2 samples, got %d", n)
	}
	for i, v := range tl.Time {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return faults.Configf("timeline.time", "non-finite value %g at index %d", v, i)
		}
	}
	for i := 1; i < n; i++ {
		if !(tl.Time[i] > tl.Time[i-1]) {
			return faults.Configf("timeline.time", "not strictly increasing at index %d", i)
		}
	}
	series := []struct {
		field string
		v     []float64
	}{
		{"timeline.fusion_time", tl.FusionTime},
		{"timeline.DT_rate", tl.DTRate},
		{"timeline.DD_rate", tl.DDRate},
	}
	for _, s := range series {
		if len(s.v) != n {
			return faults.Configf(s.field, "has %d samples, time has %d", len(s.v), n)
		}
		for i, v := range s.v {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return faults.Configf(s.field, "must be finite and non-negative, got %g at index %d", v, i)
			}
		}
	}
	for _, idx := range tl.BlanketChanges {
		if idx < 0 || idx >= n {
			return faults.Configf("timeline.blanket_change_index", "index %d outside [0, %d)", idx, n)
		}
	}
	return nil
}

// Truncate returns a copy holding the first n samples. Blanket changes at or
// beyond n are dropped. n larger than the timeline keeps every sample.
func (tl *Timeline) Truncate(n int) (*Timeline, error) {
	if n < 2 {
		return nil, faults.Configf("steps", "need at least 2 samples, got %d", n)
	}
	if n > len(tl.Time) {
		n = len(tl.Time)
	}
	out := &Timeline{
		Time:       head(tl.Time, n),
		FusionTime: head(tl.FusionTime, n),
		DTRate:     head(tl.DTRate, n),
		DDRate:     head(tl.DDRate, n),
		LoadFactor: tl.LoadFactor,
	}
	for _, idx := range tl.BlanketChanges {
		if idx < n {
			out.BlanketChanges = append(out.BlanketChanges, idx)
		}
	}
	return out, nil
}

func head(v []float64, n int) []float64 {
	if len(v) < n {
		n = len(v)
	}
	return append([]float64(nil), v[:n]...)
}

// Load reads a timeline from a .yaml, .yml or .json file and validates it.
func Load(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline file: %w", err)
	}
	tl, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tl, nil
}

// Parse decodes a timeline. ext selects the format (".json" or YAML for
// anything else). Unknown keys are rejected.
func Parse(data []byte, ext string) (*Timeline, error) {
	var tl Timeline
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&tl); err != nil {
			return nil, faults.Configf("timeline", "failed to parse JSON: %v", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&tl); err != nil {
			return nil, faults.Configf("timeline", "failed to parse YAML: %v", err)
		}
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return &tl, nil
}
