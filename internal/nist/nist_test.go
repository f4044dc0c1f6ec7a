package nist

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotyche/domain/core"
	"gotyche/domain/encoding"
	"gotyche/domain/stats"
)

func TestReferenceVectors(t *testing.T) {
	for _, v := range ReferenceVectors() {
		t.Run(v.Name, func(t *testing.T) {
			outcome := v.Test.Execute(encoding.MustParseBits(v.Bits))
			p, ok := outcome.PValue()
			require.True(t, ok)
			assert.InDelta(t, v.Expected, p, ReferenceTolerance)
		})
	}
}

func TestBlockFrequencyReferenceDependsOnBlockSize(t *testing.T) {
	bits := encoding.MustParseBits(epsilon100)
	for _, tt := range []struct {
		size int
		want float64
	}{
		{3, 0.500122},
		{10, 0.706438},
	} {
		p, ok := (&BlockFrequency{BlockSize: tt.size}).Execute(bits).PValue()
		require.True(t, ok)
		assert.InDelta(t, tt.want, p, ReferenceTolerance, "M=%d", tt.size)
	}
}

func TestSelfTestPasses(t *testing.T) {
	results := SelfTest()
	assert.Len(t, results, len(ReferenceVectors()))
	assert.True(t, SelfTestPassed(results))
}

func randomBits(n int, seed uint64) []uint8 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	bits := make([]uint8, n)
	for i := range bits {
		bits[i] = uint8(rng.IntN(2))
	}
	return bits
}

func TestOutcomesStayInRange(t *testing.T) {
	battery, err := NewBattery(DefaultConfig())
	require.NoError(t, err)

	inputs := [][]uint8{
		nil,
		{1},
		{0, 0},
		randomBits(17, 1),
		randomBits(200, 2),
		randomBits(7000, 3),
		make([]uint8, 512),
	}
	for _, bits := range inputs {
		results := battery.RunBits(0, bits)
		require.Len(t, results, 5)
		for _, r := range results {
			p := r.Outcome.Sentinel()
			if r.Outcome.IsApplicable() {
				assert.True(t, p >= 0 && p <= 1, "%s on %d bits gave %g", r.Test, len(bits), p)
			} else {
				assert.Equal(t, stats.SentinelNotApplicable, p)
				assert.False(t, r.Passed)
			}
		}
	}
}

func TestMonobitMonotonicity(t *testing.T) {
	for _, n := range []int{2, 10, 64, 1000} {
		ones := encoding.MustParseBits(strings.Repeat("1", n))
		zeros := make([]uint8, n)
		alternating := encoding.MustParseBits(strings.Repeat("10", n/2))

		pBalanced, _ := (&Monobit{}).Execute(alternating).PValue()
		pOnes, _ := (&Monobit{}).Execute(ones).PValue()
		pZeros, _ := (&Monobit{}).Execute(zeros).PValue()

		assert.Less(t, pOnes, pBalanced, "n=%d", n)
		assert.Less(t, pZeros, pBalanced, "n=%d", n)
		assert.Equal(t, 1.0, pBalanced)
	}
}

func TestNotApplicableOnShortStreams(t *testing.T) {
	short := randomBits(20, 9)

	assert.False(t, (&BlockFrequency{BlockSize: 64}).Execute(short).IsApplicable())
	assert.False(t, (&LongestRun{}).Execute(randomBits(127, 9)).IsApplicable())
	assert.True(t, (&LongestRun{}).Execute(randomBits(128, 9)).IsApplicable())
	assert.False(t, (&MatrixRank{Size: 5, Method: RankGF2}).Execute(short).IsApplicable())
	assert.False(t, (&Monobit{}).Execute(nil).IsApplicable())
	assert.False(t, (&Runs{}).Execute(nil).IsApplicable())
}

func TestRunsPrerequisiteFailure(t *testing.T) {
	bits := encoding.MustParseBits(strings.Repeat("1", 90) + strings.Repeat("0", 10))
	outcome := (&Runs{}).Execute(bits)
	p, ok := outcome.PValue()
	require.True(t, ok, "a biased stream is a genuine zero, not a skip")
	assert.Equal(t, 0.0, p)
}

func TestLongestRunTableSelection(t *testing.T) {
	assert.Equal(t, 8, tableFor(128).blockSize)
	assert.Equal(t, 8, tableFor(6271).blockSize)
	assert.Equal(t, 128, tableFor(6272).blockSize)
	assert.Equal(t, 10000, tableFor(75000).blockSize)

	boundaries := []int{4, 5, 6, 7, 8, 9}
	assert.Equal(t, 0, category(0, boundaries))
	assert.Equal(t, 0, category(4, boundaries))
	assert.Equal(t, 3, category(7, boundaries))
	assert.Equal(t, 5, category(12, boundaries))
}

func TestRankMethods(t *testing.T) {
	tests := []struct {
		name string
		bits string
		q    int
		gf2  int
		real int
	}{
		{"identity", "100010001", 3, 3, 3},
		{"zero", "000000000", 3, 0, 0},
		{"duplicate rows", "010110010", 3, 2, 2},
		// rows 110, 011, 101 sum to zero mod 2 but are independent over the reals
		{"gf2 deviation", "110011101", 3, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits := encoding.MustParseBits(tt.bits)
			assert.Equal(t, tt.gf2, binaryRank(bits, tt.q))
			assert.Equal(t, tt.real, realRank(bits, tt.q))
		})
	}
}

func TestBatteryRunsEveryTestInOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Condition = 0.001
	battery, err := NewBattery(cfg)
	require.NoError(t, err)

	stream := encoding.Stream{Column: "x", Index: 3, Symbols: strings.Repeat("0110100110010110", 64)}
	results, err := battery.Run(stream)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, name := range stats.AllTests() {
		assert.Equal(t, name, results[i].Test)
		assert.Equal(t, 3, results[i].Stream)
		assert.Equal(t, results[i].Outcome.PassesAt(0.001), results[i].Passed)
	}

	_, err = battery.Run(encoding.Stream{Symbols: "10a1"})
	assert.True(t, errors.Is(err, core.ErrInvalidSymbol))
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Condition = 0
	assert.True(t, core.IsConfigurationError(bad.Validate()))

	bad = cfg
	bad.MatrixSize = 1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.RankMethod = "quantum"
	_, err := NewBattery(bad)
	assert.True(t, errors.Is(err, core.ErrUnknownRankMethod))

	method, err := ParseRankMethod("SVD")
	require.NoError(t, err)
	assert.Equal(t, RankReal, method)
}
