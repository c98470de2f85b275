package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tritium/internal/testutil"
	"github.com/roach88/tritium/internal/timeline"
)

// writeTimeline stores tl as YAML in a temp dir and returns its path.
func writeTimeline(t *testing.T, tl *timeline.Timeline) string {
	t.Helper()
	data, err := yaml.Marshal(tl)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// monthTimeline is a 30-day pulsed plant that converges quickly with the
// reference parameters.
func monthTimeline(t *testing.T) string {
	t.Helper()
	return writeTimeline(t, testutil.PulsedTimeline(30, 5, 2, testutil.DemoDTRate))
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	stdout, _, err := executeSplit(cmd, args...)
	return stdout, err
}

// executeSplit runs cmd with args and returns stdout and stderr separately.
func executeSplit(cmd *cobra.Command, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// decodeResponse decodes a JSON CLI response, with Data decoded into data.
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}
