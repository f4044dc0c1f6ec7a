package stats

import (
	"encoding/json"
	"math"

	"gotyche/domain/core"
	"gotyche/domain/encoding"
)

// TestName identifies one hypothesis test of the battery
type TestName string

const (
	TestMonobit        TestName = "monobit"
	TestBlockFrequency TestName = "block_frequency"
	TestRuns           TestName = "runs"
	TestLongestRun     TestName = "longest_run"
	TestMatrixRank     TestName = "matrix_rank"
)

// AllTests lists the battery in reporting order
func AllTests() []TestName {
	return []TestName{TestMonobit, TestBlockFrequency, TestRuns, TestLongestRun, TestMatrixRank}
}

// Title returns a human-readable test name
func (t TestName) Title() string {
	switch t {
	case TestMonobit:
		return "Monobit Test"
	case TestBlockFrequency:
		return "Block Frequency Test"
	case TestRuns:
		return "Runs Test"
	case TestLongestRun:
		return "Longest Run Test"
	case TestMatrixRank:
		return "Matrix Rank Test"
	default:
		return string(t)
	}
}

// SentinelNotApplicable is the legacy numeric marker for a skipped test
const SentinelNotApplicable = -1.0

// Outcome is the result of one test on one stream: either a p-value in
// [0,1] or "not applicable" because the stream is too short.
type Outcome struct {
	pValue     float64
	applicable bool
}

// Applicable wraps a computed p-value, clamping rounding error into [0,1]
func Applicable(p float64) Outcome {
	switch {
	case math.IsNaN(p), p < 0:
		p = 0
	case p > 1:
		p = 1
	}
	return Outcome{pValue: p, applicable: true}
}

// NotApplicable marks a test that could not run on the stream
func NotApplicable() Outcome {
	return Outcome{}
}

// PValue returns the p-value and whether the test was applicable
func (o Outcome) PValue() (float64, bool) {
	return o.pValue, o.applicable
}

// IsApplicable reports whether a p-value was computed
func (o Outcome) IsApplicable() bool {
	return o.applicable
}

// Sentinel returns the p-value, or -1 when not applicable
func (o Outcome) Sentinel() float64 {
	if !o.applicable {
		return SentinelNotApplicable
	}
	return o.pValue
}

// PassesAt reports whether the outcome is applicable and p > condition
func (o Outcome) PassesAt(condition float64) bool {
	return o.applicable && o.pValue > condition
}

type outcomeJSON struct {
	PValue     float64 `json:"p_value"`
	Applicable bool    `json:"applicable"`
}

// MarshalJSON emits the sentinel form so that consumers of the legacy
// contract keep working
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeJSON{PValue: o.Sentinel(), Applicable: o.applicable})
}

// UnmarshalJSON accepts the form produced by MarshalJSON
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var raw outcomeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Applicable {
		*o = Applicable(raw.PValue)
	} else {
		*o = NotApplicable()
	}
	return nil
}

// TestResult is one test applied to one stream
type TestResult struct {
	Test    TestName `json:"test"`
	Stream  int      `json:"stream"`
	Outcome Outcome  `json:"outcome"`
	Passed  bool     `json:"passed"`
}

// AggregateResult summarizes one test over all streams of one column
type AggregateResult struct {
	Test   TestName `json:"test"`
	Column string   `json:"column"`

	// AggregatePValue measures uniformity of the applicable p-values
	AggregatePValue float64 `json:"aggregate_p_value"`

	// PassFraction is the share of applicable streams with p > condition
	PassFraction float64 `json:"pass_fraction"`

	Streams int  `json:"streams"`
	Skips   int  `json:"skips"`
	Skipped bool `json:"skipped"`
	Passed  bool `json:"passed"`
}

// ColumnReport gathers the aggregate results of one column
type ColumnReport struct {
	Column     string                 `json:"column"`
	Streams    int                    `json:"streams"`
	Aggregates []AggregateResult      `json:"aggregates"`
	PerStream  map[TestName][]Outcome `json:"per_stream,omitempty"`
}

// Aggregate returns the aggregate for one test
func (c ColumnReport) Aggregate(test TestName) (AggregateResult, bool) {
	for _, agg := range c.Aggregates {
		if agg.Test == test {
			return agg, true
		}
	}
	return AggregateResult{}, false
}

// PassedCount returns how many tests passed for the column
func (c ColumnReport) PassedCount() int {
	passed := 0
	for _, agg := range c.Aggregates {
		if agg.Passed {
			passed++
		}
	}
	return passed
}

// Report is the output of a battery run over a whole dataset
type Report struct {
	RunID       core.RunID      `json:"run_id"`
	Dataset     string          `json:"dataset"`
	CreatedAt   core.Timestamp  `json:"created_at"`
	Params      encoding.Params `json:"params"`
	Condition   float64         `json:"condition"`
	PassBar     float64         `json:"pass_bar"`
	Fingerprint core.Hash       `json:"fingerprint"`
	Columns     []ColumnReport  `json:"columns"`
}

// Column looks up a column report by name
func (r *Report) Column(name string) (ColumnReport, bool) {
	for _, col := range r.Columns {
		if col.Column == name {
			return col, true
		}
	}
	return ColumnReport{}, false
}

// PassedCounts returns the number of passed tests per column, in column order
func (r *Report) PassedCounts() []float64 {
	counts := make([]float64, len(r.Columns))
	for i, col := range r.Columns {
		counts[i] = float64(col.PassedCount())
	}
	return counts
}
