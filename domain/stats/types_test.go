package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeTagging(t *testing.T) {
	p, ok := Applicable(0.25).PValue()
	assert.True(t, ok)
	assert.Equal(t, 0.25, p)

	na := NotApplicable()
	assert.False(t, na.IsApplicable())
	assert.Equal(t, SentinelNotApplicable, na.Sentinel())
	assert.False(t, na.PassesAt(-5), "not applicable never passes")

	// A genuine zero p-value stays distinct from "not applicable"
	zero := Applicable(0)
	assert.True(t, zero.IsApplicable())
	assert.Equal(t, 0.0, zero.Sentinel())
}

func TestApplicableClamps(t *testing.T) {
	assert.Equal(t, 1.0, Applicable(1.0000001).Sentinel())
	assert.Equal(t, 0.0, Applicable(-1e-12).Sentinel())
	assert.Equal(t, 0.0, Applicable(math.NaN()).Sentinel())
}

func TestOutcomePassesAt(t *testing.T) {
	assert.True(t, Applicable(0.02).PassesAt(0.01))
	assert.False(t, Applicable(0.01).PassesAt(0.01), "pass requires strictly greater")
}

func TestOutcomeJSONRoundTrip(t *testing.T) {
	in := []Outcome{Applicable(0.5), NotApplicable()}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"p_value":0.5,"applicable":true},{"p_value":-1,"applicable":false}]`, string(data))

	var out []Outcome
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestReportLookups(t *testing.T) {
	report := &Report{Columns: []ColumnReport{
		{Column: "a", Aggregates: []AggregateResult{{Test: TestRuns, Passed: true}, {Test: TestMonobit}}},
		{Column: "b", Aggregates: []AggregateResult{{Test: TestRuns, Passed: true}, {Test: TestMonobit, Passed: true}}},
	}}

	col, ok := report.Column("b")
	require.True(t, ok)
	agg, ok := col.Aggregate(TestMonobit)
	require.True(t, ok)
	assert.True(t, agg.Passed)

	_, ok = report.Column("c")
	assert.False(t, ok)
	assert.Equal(t, []float64{1, 2}, report.PassedCounts())
	assert.Len(t, AllTests(), 5)
	assert.Equal(t, "Runs Test", TestRuns.Title())
}
