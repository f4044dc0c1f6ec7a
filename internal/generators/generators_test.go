package generators

import (
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotyche/domain/core"
)

func TestDefaultConfigLength(t *testing.T) {
	cfg := DefaultConfig(core.YearSpan{Start: 2000, End: 2010})
	assert.Equal(t, 2560, cfg.Length)
	assert.NoError(t, cfg.Validate())
}

func TestUniformIntegersAreSeededAndBounded(t *testing.T) {
	cfg := Config{Length: 1000, Seed: 7, Low: -250, High: 250}
	first := New(cfg).UniformIntegers()
	second := New(cfg).UniformIntegers()
	assert.Equal(t, first, second)

	for _, v := range first {
		assert.True(t, v >= -250 && v < 250)
		assert.Equal(t, float64(int(v)), v)
	}

	cfg.Seed = 8
	assert.NotEqual(t, first, New(cfg).UniformIntegers())
}

func TestUniformFloats(t *testing.T) {
	values := New(Config{Length: 5000, Seed: 1, Low: 0, High: 1}).UniformFloats()
	mean, err := stats.Mean(values)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mean, 0.05)
}

func TestCryptoIntegersBounds(t *testing.T) {
	values, err := CryptoIntegers(500, -3, 3)
	require.NoError(t, err)
	require.Len(t, values, 500)
	for _, v := range values {
		assert.True(t, v >= -3 && v <= 3)
	}
}

func TestDeterministicIsCentred(t *testing.T) {
	values, err := Deterministic(100)
	require.NoError(t, err)
	mean, err := stats.Mean(values)
	require.NoError(t, err)
	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, -0.45, values[0], 1e-12)
	assert.InDelta(t, values[0], values[10], 1e-12)
}

func TestFixtures(t *testing.T) {
	gen := New(DefaultConfig(core.YearSpan{Start: 2000, End: 2002}))
	fixtures, err := gen.Fixtures()
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	assert.Equal(t, "Mersenne", fixtures[0].Name)
	assert.False(t, fixtures[0].ScaleBasisPoints)
	assert.Equal(t, 512, fixtures[0].Data.Rows())
	assert.True(t, fixtures[1].ScaleBasisPoints)

	crypto, err := gen.CryptoFixture()
	require.NoError(t, err)
	assert.Equal(t, 512, crypto.Data.Rows())

	_, err = New(Config{Length: 0, Low: 0, High: 1}).Fixtures()
	assert.Error(t, err)
}
