package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tritium/internal/faults"
)

// Load reads a parameter file and validates it. .cue files are unified
// with the schema; .json, .yaml and .yml files override Defaults key by
// key. Unknown keys are rejected in every format.
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read params file: %w", err)
	}
	p, err := Parse(data, filepath.Base(path))
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes parameters from data. The extension of name selects the
// format.
func Parse(data []byte, name string) (Params, error) {
	p := Defaults()
	switch strings.ToLower(filepath.Ext(name)) {
	case ".cue":
		return decodeCUE(data, name)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Params{}, faults.Configf("params", "failed to parse JSON: %v", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document keeps the defaults.
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return Params{}, faults.Configf("params", "failed to parse YAML: %v", err)
		}
	default:
		return Params{}, faults.Configf("params", "unsupported file extension %q", filepath.Ext(name))
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// ParseOverrides parses key=value pairs as given to --set.
func ParseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, faults.Configf("set", "expected key=value, got %q", pair)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}
