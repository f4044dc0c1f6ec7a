package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gotyche/domain/core"
	"gotyche/domain/dataset"
	"gotyche/domain/encoding"
	"gotyche/domain/stats"
	"gotyche/internal"
	"gotyche/internal/aggregate"
	"gotyche/internal/encoder"
	"gotyche/internal/nist"
	"gotyche/ports"
)

// RandomnessService runs the full pipeline: encode, test every stream,
// aggregate per column
type RandomnessService struct {
	encoder    ports.EncoderPort
	battery    ports.BatteryPort
	aggregator ports.AggregatorPort
	workers    int
	logger     *internal.Logger
}

// AnalyzeRequest defines the inputs of one battery run
type AnalyzeRequest struct {
	Dataset *dataset.Dataset
	Params  encoding.Params

	// IncludeStreams keeps the raw per-stream outcomes in the report
	IncludeStreams bool
}

// NewRandomnessService wires the pipeline; workers bounds column parallelism
func NewRandomnessService(encoder ports.EncoderPort, battery ports.BatteryPort, aggregator ports.AggregatorPort, workers int, logger *internal.Logger) *RandomnessService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &RandomnessService{
		encoder:    encoder,
		battery:    battery,
		aggregator: aggregator,
		workers:    workers,
		logger:     logger.With("RandomnessService"),
	}
}

// NewPipeline builds a service from battery and aggregation settings
func NewPipeline(battery nist.Config, thresholds aggregate.Config, workers int, logger *internal.Logger) (*RandomnessService, error) {
	b, err := nist.NewBattery(battery)
	if err != nil {
		return nil, err
	}
	agg, err := aggregate.New(thresholds)
	if err != nil {
		return nil, err
	}
	return NewRandomnessService(encoder.New(logger), b, agg, workers, logger), nil
}

// Analyze encodes the dataset and produces one report. Columns are processed
// in parallel; the report lists them in dataset order.
func (s *RandomnessService) Analyze(ctx context.Context, req AnalyzeRequest) (*stats.Report, error) {
	if req.Dataset == nil {
		return nil, core.ErrEmptyDataset
	}
	startTime := time.Now()

	batch, err := s.encoder.Convert(req.Dataset, req.Params)
	if err != nil {
		return nil, err
	}

	columns := make([]stats.ColumnReport, len(batch.Columns))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, col := range batch.Columns {
		g.Go(func() error {
			report, err := s.analyzeColumn(gCtx, col, batch.Streams(col))
			if err != nil {
				return fmt.Errorf("column %s: %w", col, err)
			}
			if !req.IncludeStreams {
				report.PerStream = nil
			}
			columns[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	condition, passBar := s.aggregator.Thresholds()
	report := &stats.Report{
		RunID:       core.NewRunID(),
		Dataset:     req.Dataset.Name,
		CreatedAt:   core.Now(),
		Params:      batch.Params,
		Condition:   condition,
		PassBar:     passBar,
		Fingerprint: batch.Fingerprint(),
		Columns:     columns,
	}
	s.logger.Info("run %s: %d columns, %d streams in %s", report.RunID, len(columns), batch.StreamCount(), time.Since(startTime).Round(time.Millisecond))
	return report, nil
}

func (s *RandomnessService) analyzeColumn(ctx context.Context, column string, streams []encoding.Stream) (stats.ColumnReport, error) {
	perStream := make([][]stats.TestResult, 0, len(streams))
	for _, stream := range streams {
		if err := ctx.Err(); err != nil {
			return stats.ColumnReport{}, err
		}
		results, err := s.battery.Run(stream)
		if err != nil {
			return stats.ColumnReport{}, err
		}
		perStream = append(perStream, results)
	}
	report := s.aggregator.Column(column, perStream)
	s.logger.Debug("column %s: %d/%d tests passed over %d streams", column, report.PassedCount(), len(report.Aggregates), len(streams))
	return report, nil
}
