package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotyche/domain/core"
	"gotyche/domain/stats"
)

func newAggregator(t *testing.T) *Aggregator {
	t.Helper()
	agg, err := New(DefaultConfig())
	require.NoError(t, err)
	return agg
}

func TestUniformPValuesAggregateToOne(t *testing.T) {
	outcomes := make([]stats.Outcome, 0, 10)
	for i := 0; i < 10; i++ {
		outcomes = append(outcomes, stats.Applicable(0.05+0.1*float64(i)))
	}

	result := newAggregator(t).Aggregate("x", stats.TestRuns, outcomes)
	assert.InDelta(t, 1.0, result.AggregatePValue, 1e-12)
	assert.Equal(t, 1.0, result.PassFraction)
	assert.False(t, result.Skipped)
	assert.True(t, result.Passed)
	assert.Equal(t, 10, result.Streams)
}

func TestClusteredPValuesAreNotUniform(t *testing.T) {
	outcomes := make([]stats.Outcome, 50)
	for i := range outcomes {
		outcomes[i] = stats.Applicable(0.5)
	}
	result := newAggregator(t).Aggregate("x", stats.TestMonobit, outcomes)
	assert.Less(t, result.AggregatePValue, 1e-6)
	assert.True(t, result.Passed, "verdict rests on the pass fraction")
}

func TestSkipPropagation(t *testing.T) {
	outcomes := []stats.Outcome{
		stats.Applicable(0.5),
		stats.NotApplicable(),
		stats.Applicable(0.001),
	}
	result := newAggregator(t).Aggregate("x", stats.TestMatrixRank, outcomes)
	assert.True(t, result.Skipped)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.Skips)
	assert.Equal(t, 0.5, result.PassFraction, "skips are excluded from the pass fraction")
}

func TestPassFractionBar(t *testing.T) {
	outcomes := make([]stats.Outcome, 0, 25)
	for i := 0; i < 24; i++ {
		outcomes = append(outcomes, stats.Applicable(0.5))
	}
	outcomes = append(outcomes, stats.Applicable(0.005))

	result := newAggregator(t).Aggregate("x", stats.TestRuns, outcomes)
	assert.Equal(t, 0.96, result.PassFraction)
	assert.True(t, result.Passed)

	outcomes[0] = stats.Applicable(0)
	result = newAggregator(t).Aggregate("x", stats.TestRuns, outcomes)
	assert.False(t, result.Passed)
	assert.False(t, result.Skipped, "a zero p-value is a failure, not a skip")
}

func TestColumnGroupsByTest(t *testing.T) {
	perStream := make([][]stats.TestResult, 3)
	for i := range perStream {
		for _, name := range stats.AllTests() {
			outcome := stats.Applicable(0.5)
			if name == stats.TestLongestRun {
				outcome = stats.NotApplicable()
			}
			perStream[i] = append(perStream[i], stats.TestResult{Test: name, Stream: i, Outcome: outcome})
		}
	}

	report := newAggregator(t).Column("col", perStream)
	assert.Equal(t, 3, report.Streams)
	require.Len(t, report.Aggregates, 5)
	assert.Len(t, report.PerStream[stats.TestMonobit], 3)

	longest, ok := report.Aggregate(stats.TestLongestRun)
	require.True(t, ok)
	assert.True(t, longest.Skipped)
	assert.Equal(t, 4, report.PassedCount())
}

func TestBinEdges(t *testing.T) {
	assert.Equal(t, 0, Bin(0))
	assert.Equal(t, 1, Bin(0.15))
	assert.Equal(t, 9, Bin(0.95))
	assert.Equal(t, 9, Bin(1))
}

func TestConfigValidation(t *testing.T) {
	_, err := New(Config{Condition: 0.01, PassBar: 1.5})
	assert.True(t, core.IsConfigurationError(err))
	_, err = New(Config{Condition: 0, PassBar: 0.96})
	assert.Error(t, err)
}
