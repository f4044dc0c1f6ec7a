// Package aggregate folds per-stream p-values into one verdict per test and
// column.
package aggregate

import (
	"fmt"

	"gotyche/domain/core"
	"gotyche/domain/stats"
	"gotyche/internal/nist"
)

const (
	// DefaultPassBar is the minimum share of passing streams
	DefaultPassBar = 0.96

	// uniformityBins is the number of equal-width bins over [0,1]
	uniformityBins = 10
)

// Config holds the aggregation thresholds
type Config struct {
	Condition float64 `json:"condition"`
	PassBar   float64 `json:"pass_bar"`
}

// DefaultConfig uses the battery's default significance level
func DefaultConfig() Config {
	return Config{Condition: nist.DefaultCondition, PassBar: DefaultPassBar}
}

// Validate checks both thresholds lie in (0,1]
func (c Config) Validate() error {
	if c.Condition <= 0 || c.Condition >= 1 {
		return fmt.Errorf("%w: condition %g must be in (0,1)", core.ErrInvalidBattery, c.Condition)
	}
	if c.PassBar <= 0 || c.PassBar > 1 {
		return fmt.Errorf("%w: pass bar %g must be in (0,1]", core.ErrInvalidBattery, c.PassBar)
	}
	return nil
}

// Aggregator computes cross-stream verdicts
type Aggregator struct {
	cfg Config
}

// New validates cfg and returns an aggregator
func New(cfg Config) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{cfg: cfg}, nil
}

// Thresholds returns the significance level and the pass bar
func (a *Aggregator) Thresholds() (condition, passBar float64) {
	return a.cfg.Condition, a.cfg.PassBar
}

// Aggregate summarizes the outcomes of one test over a column's streams.
// Not applicable outcomes are counted as skips and excluded from both the
// uniformity check and the pass fraction; any skip marks the result skipped.
func (a *Aggregator) Aggregate(column string, test stats.TestName, outcomes []stats.Outcome) stats.AggregateResult {
	result := stats.AggregateResult{
		Test:    test,
		Column:  column,
		Streams: len(outcomes),
	}

	bins := make([]float64, uniformityBins)
	applicable, passed := 0, 0
	for _, o := range outcomes {
		p, ok := o.PValue()
		if !ok {
			result.Skips++
			continue
		}
		applicable++
		bins[Bin(p)]++
		if o.PassesAt(a.cfg.Condition) {
			passed++
		}
	}

	if applicable > 0 {
		result.AggregatePValue = nist.ChiSquareUniformity(bins)
		result.PassFraction = float64(passed) / float64(applicable)
	}
	result.Skipped = result.Skips > 0 || applicable == 0
	result.Passed = !result.Skipped && result.PassFraction >= a.cfg.PassBar
	return result
}

// Column aggregates every test for one column. perStream holds the battery
// results of each stream in order.
func (a *Aggregator) Column(column string, perStream [][]stats.TestResult) stats.ColumnReport {
	byTest := make(map[stats.TestName][]stats.Outcome, len(stats.AllTests()))
	for _, results := range perStream {
		for _, r := range results {
			byTest[r.Test] = append(byTest[r.Test], r.Outcome)
		}
	}

	report := stats.ColumnReport{
		Column:    column,
		Streams:   len(perStream),
		PerStream: byTest,
	}
	for _, test := range stats.AllTests() {
		report.Aggregates = append(report.Aggregates, a.Aggregate(column, test, byTest[test]))
	}
	return report
}

// Bin maps a p-value to one of ten equal-width bins; 1 falls in the last bin
func Bin(p float64) int {
	bin := int(p * uniformityBins)
	if bin >= uniformityBins {
		return uniformityBins - 1
	}
	if bin < 0 {
		return 0
	}
	return bin
}
