package encoder

import (
	"fmt"
	"math"

	"gotyche/domain/core"
	"gotyche/domain/encoding"
)

// Window is the half-open row range [Start, End) feeding one stream
type Window struct {
	Start int
	End   int
}

// Len returns the number of rows in the window
func (w Window) Len() int {
	return w.End - w.Start
}

// Partition splits rows into stream windows by calendar granularity. Rows
// that do not fill a whole window are dropped.
func Partition(rows int, params encoding.Params) ([]Window, error) {
	if rows <= 0 {
		return nil, core.ErrEmptyDataset
	}
	if !params.Span.Valid() {
		return nil, core.NewPartitionError(fmt.Sprintf("end year %d must be after start year %d", params.Span.End, params.Span.Start))
	}
	if params.YearsPerBlock <= 0 {
		return nil, core.NewPartitionError("years per block must be positive")
	}

	years := params.Span.Years()
	periods := int(math.Floor(float64(years) / params.YearsPerBlock))
	if periods < 1 {
		return nil, core.NewPartitionError(fmt.Sprintf("years per block %g exceeds span of %d years", params.YearsPerBlock, years))
	}
	perStream := rows / periods
	if perStream == 0 {
		return nil, core.NewPartitionError(fmt.Sprintf("%d rows cannot fill %d streams", rows, periods))
	}

	mode, err := encoding.ParsePartitionMode(string(params.Mode))
	if err != nil {
		return nil, err
	}

	switch mode {
	case encoding.PartitionForwardOverlapping:
		return overlappingWindows(rows, years, perStream, params.YearsPerBlock)
	default:
		windows := make([]Window, periods)
		for i := range windows {
			windows[i] = Window{Start: i * perStream, End: (i + 1) * perStream}
		}
		return windows, nil
	}
}

// overlappingWindows advances each window by one year of rows and yields
// floor(years - yearsPerBlock + 1) windows. A window reaching past the last
// row is cut at the end of the data, so trailing streams may be shorter.
func overlappingWindows(rows, years, perStream int, yearsPerBlock float64) ([]Window, error) {
	step := rows / years
	if step == 0 {
		return nil, core.NewPartitionError(fmt.Sprintf("%d rows cannot cover %d years", rows, years))
	}
	count := int(math.Floor(float64(years) - yearsPerBlock + 1))
	if count < 1 {
		return nil, core.NewPartitionError("no overlapping window fits the data")
	}
	windows := make([]Window, count)
	for i := range windows {
		windows[i] = Window{Start: i * step, End: min(i*step+perStream, rows)}
	}
	return windows, nil
}

// encodeWindow concatenates the symbols of one row window
func encodeWindow(values []float64, w Window, strategy Strategy) (string, error) {
	buf := make([]byte, 0, w.Len())
	for row := w.Start; row < w.End; row++ {
		symbols, err := strategy.EncodeValue(values[row])
		if err != nil {
			return "", fmt.Errorf("row %d: %w", row, err)
		}
		buf = append(buf, symbols...)
	}
	return string(buf), nil
}

// fixedSizeStreams fills streams row by row until each holds at least size
// symbols. A new stream is only started while more than size rows remain,
// so the tail of the column may be left unused.
func fixedSizeStreams(column string, values []float64, size int, strategy Strategy) ([]encoding.Stream, error) {
	var streams []encoding.Stream
	row := 0
	for len(values)-row > size {
		start := row
		buf := make([]byte, 0, size+1)
		for len(buf) < size {
			symbols, err := strategy.EncodeValue(values[row])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			buf = append(buf, symbols...)
			row++
		}
		streams = append(streams, encoding.Stream{
			Column:   column,
			Index:    len(streams),
			StartRow: start,
			EndRow:   row,
			Symbols:  string(buf),
		})
	}
	return streams, nil
}
