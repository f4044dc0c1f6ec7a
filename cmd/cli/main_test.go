package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotyche/internal/config"
	"gotyche/internal/errors"
	"gotyche/internal/nist"
)

func TestFlagsOverrideOnlyWhatWasSet(t *testing.T) {
	var flags runFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--method", "float", "--pass-bar", "0.9", "--scale=false"}))

	cfg := &config.Config{}
	cfg.Encoding.Method = "discretize"
	cfg.Encoding.YearsPerBlock = 5
	cfg.Encoding.ScaleBasisPoints = true
	cfg.Battery.Condition = 0.01
	cfg.Battery.PassBar = 0.96

	flags.apply(cmd, cfg)

	assert.Equal(t, "float", cfg.Encoding.Method)
	assert.Equal(t, 0.9, cfg.Battery.PassBar)
	assert.False(t, cfg.Encoding.ScaleBasisPoints)
	assert.Equal(t, 5.0, cfg.Encoding.YearsPerBlock)
	assert.Equal(t, 0.01, cfg.Battery.Condition)
}

func TestLoadEnvAppliesFlags(t *testing.T) {
	t.Setenv("START_YEAR", "2000")
	t.Setenv("END_YEAR", "2010")

	var flags runFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--years-per-block", "2",
		"--rank-method", "svd",
	}))

	env, err := loadEnv(cmd, &flags)
	require.NoError(t, err)
	assert.Equal(t, 2.0, env.params.YearsPerBlock)
	assert.Equal(t, 2000, env.params.Span.Start)
	assert.Equal(t, "real", string(env.cfg.NistConfig().RankMethod))

	_, err = env.pipeline()
	assert.NoError(t, err)
}

func TestLoadEnvRejectsBadOverride(t *testing.T) {
	var flags runFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--method", "morse"}))

	_, err := loadEnv(cmd, &flags)
	assert.Error(t, err)
}

func TestSelfTestCommand(t *testing.T) {
	cmd := newSelfTestCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--format", "json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"passed": true`)
}

func TestSelfTestErrorNamesMismatches(t *testing.T) {
	results := nist.SelfTest()
	assert.NoError(t, selfTestError(results))

	results[1].Passed = false
	results[3].Passed = false
	err := selfTestError(results)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
	assert.Contains(t, err.Error(), results[1].Name)
	assert.Contains(t, err.Error(), results[3].Name)
}

// writeSeries writes a CSV of 512 dated ±1 values to dir/name
func writeSeries(t *testing.T, dir, name string, seed int) string {
	t.Helper()
	var csv bytes.Buffer
	csv.WriteString("Date,Series\n")
	for i := 0; i < 512; i++ {
		sign := 1
		if (i*7919+seed)%3 == 0 {
			sign = -1
		}
		fmt.Fprintf(&csv, "d%d,%d\n", i, sign)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, csv.Bytes(), 0o644))
	return path
}

func TestRunWritesReport(t *testing.T) {
	t.Setenv("START_YEAR", "2000")
	t.Setenv("END_YEAR", "2002")
	t.Setenv("YEARS_PER_BLOCK", "1")

	dir := t.TempDir()
	input := writeSeries(t, dir, "series.csv", 0)

	output := filepath.Join(dir, "report.md")
	cmd := newRunCmd()
	cmd.SetArgs([]string{input, "--out", output, "--env-file", filepath.Join(dir, "none.env")})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Series")
}

func TestRunMergesSeveralFiles(t *testing.T) {
	t.Setenv("START_YEAR", "2000")
	t.Setenv("END_YEAR", "2002")
	t.Setenv("YEARS_PER_BLOCK", "1")

	dir := t.TempDir()
	first := writeSeries(t, dir, "first.csv", 0)
	second := writeSeries(t, dir, "second.csv", 1)

	output := filepath.Join(dir, "report.json")
	cmd := newRunCmd()
	cmd.SetArgs([]string{"spx=" + first, second, "--format", "json", "--out", output, "--env-file", filepath.Join(dir, "none.env")})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dataset": "spx+second"`)
	assert.Contains(t, string(data), `"column": "spx_Series"`)
	assert.Contains(t, string(data), `"column": "second_Series"`)
}

func TestSplitSource(t *testing.T) {
	tests := []struct {
		arg, id, path string
	}{
		{"prices.csv", "prices", "prices.csv"},
		{"/data/spx.xlsx", "spx", "/data/spx.xlsx"},
		{"ndx=/data/nasdaq.csv", "ndx", "/data/nasdaq.csv"},
		{"=odd.csv", "=odd", "=odd.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			id, path := splitSource(tt.arg)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestReadDatasetsRejectsDuplicateIDs(t *testing.T) {
	t.Setenv("START_YEAR", "2000")
	t.Setenv("END_YEAR", "2002")
	t.Setenv("YEARS_PER_BLOCK", "1")

	dir := t.TempDir()
	path := writeSeries(t, dir, "series.csv", 0)

	var flags runFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--env-file", filepath.Join(dir, "none.env")}))
	env, err := loadEnv(cmd, &flags)
	require.NoError(t, err)

	_, err = readDatasets(env, []string{"a=" + path, "a=" + path})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
