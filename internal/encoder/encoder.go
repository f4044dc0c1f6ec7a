// Package encoder converts numeric datasets into bit streams for the test
// battery.
package encoder

import (
	"gotyche/domain/core"
	"gotyche/domain/dataset"
	"gotyche/domain/encoding"
	"gotyche/internal"
)

// Encoder builds encoding batches. It holds no state between conversions.
type Encoder struct {
	logger *internal.Logger
}

// New creates an encoder that logs through logger
func New(logger *internal.Logger) *Encoder {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Encoder{logger: logger.With("Encoder")}
}

// Convert encodes every column of ds. Any error, including an unknown
// strategy, aborts the whole conversion and no batch is returned.
func (e *Encoder) Convert(ds *dataset.Dataset, params encoding.Params) (*encoding.Batch, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	strategy, err := NewStrategy(params)
	if err != nil {
		return nil, err
	}
	params.Method = strategy.Method()

	var windows []Window
	if params.StreamSize == 0 {
		windows, err = Partition(ds.Rows(), params)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("partitioned %d rows into %d windows of %d rows (%s)", ds.Rows(), len(windows), windows[0].Len(), params.Mode)
		if last := windows[len(windows)-1]; last.Len() < windows[0].Len() {
			e.logger.Warn("last window holds %d of %d rows; the data ends before it does", last.Len(), windows[0].Len())
		}
	}

	streams := make(map[string][]encoding.Stream, len(ds.Columns))
	for _, col := range ds.Columns {
		values, _ := ds.Column(col)
		var colStreams []encoding.Stream
		if params.StreamSize > 0 {
			colStreams, err = fixedSizeStreams(col, values, params.StreamSize, strategy)
		} else {
			colStreams, err = windowStreams(col, values, windows, strategy)
		}
		if err != nil {
			return nil, core.NewColumnError(col, err)
		}
		streams[col] = colStreams
		e.logger.Trace("column %s: %d streams", col, len(colStreams))
	}

	batch := encoding.NewBatch(params, ds.Columns, streams)
	e.logger.Info("encoded %d columns into %d streams using %s", len(ds.Columns), batch.StreamCount(), params.Method)
	return batch, nil
}

func windowStreams(column string, values []float64, windows []Window, strategy Strategy) ([]encoding.Stream, error) {
	streams := make([]encoding.Stream, 0, len(windows))
	for i, w := range windows {
		symbols, err := encodeWindow(values, w, strategy)
		if err != nil {
			return nil, err
		}
		streams = append(streams, encoding.Stream{
			Column:   column,
			Index:    i,
			StartRow: w.Start,
			EndRow:   w.End,
			Symbols:  symbols,
		})
	}
	return streams, nil
}
