package ports

import (
	"gotyche/domain/dataset"
	"gotyche/domain/encoding"
	"gotyche/domain/stats"
)

// EncoderPort converts a dataset into bit streams
type EncoderPort interface {
	Convert(ds *dataset.Dataset, params encoding.Params) (*encoding.Batch, error)
}

// BatteryPort runs every hypothesis test on one stream
type BatteryPort interface {
	Run(stream encoding.Stream) ([]stats.TestResult, error)
}

// AggregatorPort folds per-stream results into per-column verdicts
type AggregatorPort interface {
	Column(column string, perStream [][]stats.TestResult) stats.ColumnReport
	Thresholds() (condition, passBar float64)
}
