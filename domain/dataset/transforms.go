package dataset

import (
	"fmt"
	"math"
)

// RelativeDiff converts price levels into row-over-row relative changes
// (x[t]/x[t-1] - 1). The first row is consumed; a zero denominator yields NaN
// so that DropIncomplete can discard the row.
func (d *Dataset) RelativeDiff() *Dataset {
	out := New(d.Name)
	if len(d.Index) > 1 {
		out.SetIndex(d.Index[1:])
	}
	for _, col := range d.Columns {
		values := d.values[col]
		if len(values) < 2 {
			out.AddColumn(col, nil)
			continue
		}
		diffs := make([]float64, len(values)-1)
		for i := 1; i < len(values); i++ {
			if values[i-1] == 0 {
				diffs[i-1] = math.NaN()
				continue
			}
			diffs[i-1] = values[i]/values[i-1] - 1
		}
		out.AddColumn(col, diffs)
	}
	return out
}

// DropIncomplete removes every row in which any column holds NaN or ±Inf
func (d *Dataset) DropIncomplete() *Dataset {
	rows := d.Rows()
	keep := make([]bool, rows)
	for i := range keep {
		keep[i] = true
	}
	for _, col := range d.Columns {
		for i, v := range d.values[col] {
			if i < rows && (math.IsNaN(v) || math.IsInf(v, 0)) {
				keep[i] = false
			}
		}
	}

	out := New(d.Name)
	if len(d.Index) == rows {
		labels := make([]string, 0, rows)
		for i, label := range d.Index {
			if keep[i] {
				labels = append(labels, label)
			}
		}
		out.SetIndex(labels)
	}
	for _, col := range d.Columns {
		values := make([]float64, 0, rows)
		for i, v := range d.values[col] {
			if i < rows && keep[i] {
				values = append(values, v)
			}
		}
		out.AddColumn(col, values)
	}
	return out
}

// Reverse flips row order, e.g. to turn a newest-first price file into an
// oldest-first series
func (d *Dataset) Reverse() *Dataset {
	out := New(d.Name)
	if len(d.Index) > 0 {
		labels := make([]string, len(d.Index))
		for i, label := range d.Index {
			labels[len(labels)-1-i] = label
		}
		out.SetIndex(labels)
	}
	for _, col := range d.Columns {
		values := d.values[col]
		flipped := make([]float64, len(values))
		for i, v := range values {
			flipped[len(flipped)-1-i] = v
		}
		out.AddColumn(col, flipped)
	}
	return out
}

// Source pairs a dataset with the identifier used to prefix its columns
type Source struct {
	ID   string
	Data *Dataset
}

// Merge joins several sources into one dataset whose columns are named
// "<id>_<column>". When every source carries index labels the join is an
// inner join on labels in the order of the first source; otherwise all
// sources must have the same row count and are aligned by position.
func Merge(name string, sources ...Source) (*Dataset, error) {
	if len(sources) == 0 {
		return New(name), nil
	}

	labelled := true
	for _, src := range sources {
		if src.Data == nil {
			return nil, fmt.Errorf("source %s has no data", src.ID)
		}
		if len(src.Data.Index) == 0 {
			labelled = false
		}
	}

	out := New(name)
	if !labelled {
		rows := sources[0].Data.Rows()
		for _, src := range sources {
			if src.Data.Rows() != rows {
				return nil, fmt.Errorf("source %s has %d rows, expected %d", src.ID, src.Data.Rows(), rows)
			}
			for _, col := range src.Data.Columns {
				out.AddColumn(src.ID+"_"+col, src.Data.values[col])
			}
		}
		return out, nil
	}

	// Row positions of every label in every source
	positions := make([]map[string]int, len(sources))
	for s, src := range sources {
		positions[s] = make(map[string]int, len(src.Data.Index))
		for i, label := range src.Data.Index {
			positions[s][label] = i
		}
	}

	var labels []string
	for _, label := range sources[0].Data.Index {
		shared := true
		for s := 1; s < len(sources); s++ {
			if _, ok := positions[s][label]; !ok {
				shared = false
				break
			}
		}
		if shared {
			labels = append(labels, label)
		}
	}
	out.SetIndex(labels)

	for s, src := range sources {
		for _, col := range src.Data.Columns {
			values := src.Data.values[col]
			joined := make([]float64, len(labels))
			for i, label := range labels {
				joined[i] = values[positions[s][label]]
			}
			out.AddColumn(src.ID+"_"+col, joined)
		}
	}
	return out, nil
}
