// Package params holds the physical parameter set of the fuel cycle model.
//
// Parameter names follow the conventional fuel cycle notation (TBR, f_b,
// I_tfv_min, ...) in every file format and in --set overrides. Every set is
// validated against an embedded CUE schema before a run.
package params

import (
	"sort"

	"github.com/spf13/cast"

	"github.com/roach88/tritium/internal/faults"
)

// Params is an immutable-by-convention parameter set. Times are in seconds,
// inventories in kg, m_gas in Pa m^3/s.
type Params struct {
	TBR          float64 `json:"TBR" yaml:"TBR"`
	FB           float64 `json:"f_b" yaml:"f_b"`
	MGas         float64 `json:"m_gas" yaml:"m_gas"`
	TPump        float64 `json:"t_pump" yaml:"t_pump"`
	TExh         float64 `json:"t_exh" yaml:"t_exh"`
	TTers        float64 `json:"t_ters" yaml:"t_ters"`
	TFreeze      float64 `json:"t_freeze" yaml:"t_freeze"`
	FDir         float64 `json:"f_dir" yaml:"f_dir"`
	TDetrit      float64 `json:"t_detrit" yaml:"t_detrit"`
	FDetritSplit float64 `json:"f_detrit_split" yaml:"f_detrit_split"`
	FExhSplit    float64 `json:"f_exh_split" yaml:"f_exh_split"`
	EtaFuelPump  float64 `json:"eta_fuel_pump" yaml:"eta_fuel_pump"`
	EtaF         float64 `json:"eta_f" yaml:"eta_f"`
	IMiv         float64 `json:"I_miv" yaml:"I_miv"`
	ITfvMin      float64 `json:"I_tfv_min" yaml:"I_tfv_min"`
	ITfvMax      float64 `json:"I_tfv_max" yaml:"I_tfv_max"`
	IMbb         float64 `json:"I_mbb" yaml:"I_mbb"`
	EtaIV        float64 `json:"eta_iv" yaml:"eta_iv"`
	EtaBB        float64 `json:"eta_bb" yaml:"eta_bb"`
	EtaTFV       float64 `json:"eta_tfv" yaml:"eta_tfv"`
	FTerscwps    float64 `json:"f_terscwps" yaml:"f_terscwps"`
}

// Defaults returns the reference EU-DEMO parameter set.
func Defaults() Params {
	return Params{
		TBR:          1.05,
		FB:           0.015,
		MGas:         50,
		TPump:        100,
		TExh:         3600,
		TTers:        18000,
		TFreeze:      1800,
		FDir:         0.9,
		TDetrit:      36000,
		FDetritSplit: 0.9999,
		FExhSplit:    0.99,
		EtaFuelPump:  0.9,
		EtaF:         0.5,
		IMiv:         0.3,
		ITfvMin:      2,
		ITfvMax:      2.2,
		IMbb:         0.055,
		EtaIV:        0.9995,
		EtaBB:        0.995,
		EtaTFV:       0.998,
		FTerscwps:    0.9999,
	}
}

func (p *Params) fields() map[string]*float64 {
	return map[string]*float64{
		"TBR":            &p.TBR,
		"f_b":            &p.FB,
		"m_gas":          &p.MGas,
		"t_pump":         &p.TPump,
		"t_exh":          &p.TExh,
		"t_ters":         &p.TTers,
		"t_freeze":       &p.TFreeze,
		"f_dir":          &p.FDir,
		"t_detrit":       &p.TDetrit,
		"f_detrit_split": &p.FDetritSplit,
		"f_exh_split":    &p.FExhSplit,
		"eta_fuel_pump":  &p.EtaFuelPump,
		"eta_f":          &p.EtaF,
		"I_miv":          &p.IMiv,
		"I_tfv_min":      &p.ITfvMin,
		"I_tfv_max":      &p.ITfvMax,
		"I_mbb":          &p.IMbb,
		"eta_iv":         &p.EtaIV,
		"eta_bb":         &p.EtaBB,
		"eta_tfv":        &p.EtaTFV,
		"f_terscwps":     &p.FTerscwps,
	}
}

// Keys returns the parameter names in sorted order.
func Keys() []string {
	var p Params
	keys := make([]string, 0, 21)
	for k := range p.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the named parameter.
func (p Params) Get(key string) (float64, error) {
	ptr, ok := p.fields()[key]
	if !ok {
		return 0, faults.Configf(key, "unknown parameter")
	}
	return *ptr, nil
}

// Set assigns the named parameter. v may be any value spf13/cast can turn
// into a float64, including numeric strings.
func (p *Params) Set(key string, v any) error {
	ptr, ok := p.fields()[key]
	if !ok {
		return faults.Configf(key, "unknown parameter")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return faults.Configf(key, "not a number: %v", err)
	}
	*ptr = f
	return nil
}

// With returns a copy with the overrides applied. The receiver is not
// modified.
func (p Params) With(overrides map[string]any) (Params, error) {
	out := p
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := out.Set(k, overrides[k]); err != nil {
			return Params{}, err
		}
	}
	return out, nil
}

// Map returns the parameter set keyed by name.
func (p Params) Map() map[string]float64 {
	m := make(map[string]float64, 21)
	for k, ptr := range p.fields() {
		m[k] = *ptr
	}
	return m
}
