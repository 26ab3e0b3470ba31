package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/loda-lang/formula-analyzer/internal/denylist"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdataDir = "../../internal/validate/testdata"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	out, err := execute(t, "eval", "n^2 - binomial(n,2)", "3", "10")
	require.NoError(t, err)
	assert.Equal(t, "a(3) = 6\na(10) = 55\n", out)

	out, err = execute(t, "eval", "1/n", "0", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "a(0) = error:")
	assert.Contains(t, out, "a(2) = 1/2")

	_, err = execute(t, "eval", "fibonacci(n)")
	assert.Error(t, err)

	_, err = execute(t, "eval", "n", "x")
	assert.ErrorContains(t, err, "invalid n")
}

func TestValidate_Testdata(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, "validate", "--data-dir", testdataDir, "--workers", "2", "--json", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Formula Validation")
	assert.Contains(t, out, "✓ PASS: 23 formulas checked, 243 comparisons, 0 mismatches")
	assert.FileExists(t, reportPath)
}

func TestAnnotate(t *testing.T) {
	outDir := t.TempDir()

	out, err := execute(t, "annotate", "--data-dir", testdataDir, "--out-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "loda: ")
	assert.Contains(t, out, "oeis: ")
	assert.FileExists(t, filepath.Join(outDir, "parsed-formulas-loda.txt"))
	assert.FileExists(t, filepath.Join(outDir, "parsed-formulas-oeis.txt"))
}

func TestDenylistSuggest(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "mismatches.yaml")
	require.NoError(t, os.WriteFile(in, []byte(`run_id: x
mismatches:
  - sequence_id: A000290
    source: oeis
    expression: n^2+1
  - sequence_id: A000027
    source: loda
    expression: n/2
  - sequence_id: A000290
    source: oeis
    expression: n^2+2
`), 0o644))
	out := filepath.Join(dir, "denylist.yaml")

	_, err := execute(t, "denylist", "suggest", in, "--out", out)
	require.NoError(t, err)

	d, err := denylist.LoadFromFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"A000290"}, d.IDs(domain.SourceOEIS))
	assert.Equal(t, []string{"A000027"}, d.IDs(domain.SourceLODA))
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "RunConfig", decoded["title"])
	props := decoded["properties"].(map[string]any)
	assert.Contains(t, props, "data")
	assert.Contains(t, props, "validation")
	assert.Contains(t, props, "sink")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
