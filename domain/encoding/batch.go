package encoding

import (
	"strconv"

	"gotyche/domain/core"
)

// Batch holds, for every column, the ordered streams produced by one
// conversion. A batch is never modified after construction.
type Batch struct {
	Params  Params
	Columns []string
	streams map[string][]Stream
}

// NewBatch assembles a batch; columns fixes the iteration order
func NewBatch(params Params, columns []string, streams map[string][]Stream) *Batch {
	return &Batch{
		Params:  params,
		Columns: append([]string(nil), columns...),
		streams: streams,
	}
}

// Streams returns the streams of one column in order
func (b *Batch) Streams(column string) []Stream {
	return b.streams[column]
}

// StreamCount returns the total number of streams across all columns
func (b *Batch) StreamCount() int {
	total := 0
	for _, col := range b.Columns {
		total += len(b.streams[col])
	}
	return total
}

// Fingerprint hashes parameters, column order and every stream's symbols.
// Two conversions of the same dataset with the same parameters produce the
// same fingerprint.
func (b *Batch) Fingerprint() core.Hash {
	h := core.NewHasher()
	h.WriteString(b.Params.String())
	for _, col := range b.Columns {
		h.WriteString(col)
		streams := b.streams[col]
		h.WriteString(strconv.Itoa(len(streams)))
		for _, s := range streams {
			h.WriteString(strconv.Itoa(s.StartRow) + ":" + strconv.Itoa(s.EndRow))
			h.WriteString(s.Symbols)
		}
	}
	return h.Sum()
}
