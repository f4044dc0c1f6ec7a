package app

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"gotyche/domain/core"
	"gotyche/domain/dataset"
	"gotyche/domain/encoding"
	domainstats "gotyche/domain/stats"
	"gotyche/internal/generators"
)

// SweepService repeats the battery over a range of stream lengths to find
// the granularity at which a dataset looks least random
type SweepService struct {
	analyzer *RandomnessService
}

// SweepRequest defines the inputs for a sweep
type SweepRequest struct {
	Dataset       *dataset.Dataset
	Params        encoding.Params
	YearsPerBlock []float64

	// Fixtures are analyzed at every interval next to the dataset
	Fixtures []generators.Fixture
}

// IntervalResult is the outcome of one sweep step
type IntervalResult struct {
	YearsPerBlock float64               `json:"years_per_block"`
	MeanPassed    float64               `json:"mean_passed"`
	Report        *domainstats.Report   `json:"report"`
	Fixtures      []*domainstats.Report `json:"fixtures,omitempty"`
}

// SweepResult lists every interval and the least random one
type SweepResult struct {
	SweepID        core.ID          `json:"sweep_id"`
	Intervals      []IntervalResult `json:"intervals"`
	LeastRandom    float64          `json:"least_random_interval"`
	LeastRandomFit float64          `json:"least_random_fit"`
}

// NewSweepService creates a sweep service on top of an analyzer
func NewSweepService(analyzer *RandomnessService) *SweepService {
	return &SweepService{analyzer: analyzer}
}

// Run analyzes the dataset once per interval. The least random interval is
// the one with the lowest mean number of passed tests per column; the
// earliest wins ties.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	if len(req.YearsPerBlock) == 0 {
		return nil, core.NewPartitionError("sweep needs at least one interval")
	}

	result := &SweepResult{SweepID: core.NewID(), LeastRandomFit: math.Inf(1)}
	for _, ypb := range req.YearsPerBlock {
		params := req.Params
		params.YearsPerBlock = ypb
		params.StreamSize = 0

		step := IntervalResult{YearsPerBlock: ypb}
		for _, fx := range req.Fixtures {
			fxParams := params
			fxParams.ScaleBasisPoints = fx.ScaleBasisPoints
			report, err := s.analyzer.Analyze(ctx, AnalyzeRequest{Dataset: fx.Data, Params: fxParams})
			if err != nil {
				return nil, fmt.Errorf("fixture %s at %g years: %w", fx.Name, ypb, err)
			}
			step.Fixtures = append(step.Fixtures, report)
		}

		report, err := s.analyzer.Analyze(ctx, AnalyzeRequest{Dataset: req.Dataset, Params: params})
		if err != nil {
			return nil, fmt.Errorf("interval %g years: %w", ypb, err)
		}
		mean, err := stats.Mean(report.PassedCounts())
		if err != nil {
			return nil, err
		}
		step.Report = report
		step.MeanPassed = mean
		result.Intervals = append(result.Intervals, step)

		if mean < result.LeastRandomFit {
			result.LeastRandomFit = mean
			result.LeastRandom = ypb
		}
		s.analyzer.logger.Info("sweep %s: %g years per block, mean passed %.2f", result.SweepID, ypb, mean)
	}
	return result, nil
}
