package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/tritium/internal/params"
	"github.com/roach88/tritium/internal/timeline"
)

// DomainRunInput prefixes run input hashes. The version suffix leaves room
// for a future change of the canonical form.
const DomainRunInput = "tritium/run-input/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data). The null byte keeps
// the domain and data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Input assembles the canonical document describing a run.
func Input(p params.Params, tl *timeline.Timeline, settings map[string]any) map[string]any {
	bci := tl.BlanketChanges
	if bci == nil {
		bci = []int{}
	}
	if settings == nil {
		settings = map[string]any{}
	}
	return map[string]any{
		"params": p.Map(),
		"timeline": map[string]any{
			"time":                 tl.Time,
			"fusion_time":          tl.FusionTime,
			"DT_rate":              tl.DTRate,
			"DD_rate":              tl.DDRate,
			"A_global":             tl.LoadFactor,
			"blanket_change_index": bci,
		},
		"settings": settings,
	}
}

// InputHash returns the content address of a run input.
func InputHash(p params.Params, tl *timeline.Timeline, settings map[string]any) (string, error) {
	data, err := Marshal(Input(p, tl, settings))
	if err != nil {
		return "", fmt.Errorf("InputHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRunInput, data), nil
}

// ParamsJSON returns the canonical JSON of a parameter set.
func ParamsJSON(p params.Params) (string, error) {
	data, err := Marshal(p.Map())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
