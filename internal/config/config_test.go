package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotyche/domain/encoding"
	"gotyche/internal/errors"
	"gotyche/internal/nist"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Server.RequestTimeout)

	params, err := cfg.EncodingParams()
	require.NoError(t, err)
	assert.Equal(t, encoding.DefaultParams(), params)
	assert.Equal(t, nist.DefaultConfig(), cfg.NistConfig())
	assert.Equal(t, 0.96, cfg.AggregateConfig().PassBar)
	assert.Equal(t, 256*65, cfg.GeneratorConfig().Length)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENCODING_METHOD", "floating-point")
	t.Setenv("PARTITION_MODE", "forward-overlapping")
	t.Setenv("START_YEAR", "1990")
	t.Setenv("END_YEAR", "2000")
	t.Setenv("YEARS_PER_BLOCK", "2.5")
	t.Setenv("FLOAT_WIDTH", "32")
	t.Setenv("CONDITION", "0.001")
	t.Setenv("RANK_METHOD", "REAL")
	t.Setenv("DATA_DROP_COLUMNS", " Volume, ,Adj Close ")
	t.Setenv("WORKERS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	params, err := cfg.EncodingParams()
	require.NoError(t, err)
	assert.Equal(t, encoding.MethodFloatingPoint, params.Method)
	assert.Equal(t, encoding.PartitionForwardOverlapping, params.Mode)
	assert.Equal(t, 10, params.Span.Years())
	assert.Equal(t, 32, params.FloatWidth)
	assert.Equal(t, nist.RankReal, cfg.NistConfig().RankMethod)
	assert.Equal(t, 0.001, cfg.AggregateConfig().Condition)
	assert.Equal(t, []string{"Volume", "Adj Close"}, cfg.Data.DropColumns)
	assert.Equal(t, 3, cfg.Runtime.Workers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown method", "ENCODING_METHOD", "fourier"},
		{"inverted span", "END_YEAR", "1900"},
		{"condition out of range", "CONDITION", "1.5"},
		{"unknown rank method", "RANK_METHOD", "quantum"},
		{"no workers", "WORKERS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GOTYCHE_TEST_BLOCK=128\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GOTYCHE_TEST_BLOCK") })

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "128", os.Getenv("GOTYCHE_TEST_BLOCK"))
}
