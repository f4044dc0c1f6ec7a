package dataset

import (
	"fmt"
	"math"
	"sort"

	"gotyche/domain/core"
)

// Dataset is a tabular set of numeric series aligned by row index. Columns
// are kept in insertion order; Index optionally labels each row (usually a
// date) and is either empty or as long as every column.
type Dataset struct {
	Name    string
	Columns []string
	Index   []string
	values  map[string][]float64
}

// New creates an empty dataset
func New(name string) *Dataset {
	return &Dataset{
		Name:   name,
		values: make(map[string][]float64),
	}
}

// FromColumns builds a dataset from a column map. Column order is sorted by
// name so that the result does not depend on map iteration order.
func FromColumns(name string, columns map[string][]float64) (*Dataset, error) {
	names := make([]string, 0, len(columns))
	for col := range columns {
		names = append(names, col)
	}
	sort.Strings(names)

	ds := New(name)
	for _, col := range names {
		if err := ds.AddColumn(col, columns[col]); err != nil {
			return nil, err
		}
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// AddColumn appends a copy of values under name. Adding an existing name
// replaces its values but keeps its position.
func (d *Dataset) AddColumn(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if d.values == nil {
		d.values = make(map[string][]float64)
	}
	if _, exists := d.values[name]; !exists {
		d.Columns = append(d.Columns, name)
	}
	d.values[name] = append([]float64(nil), values...)
	return nil
}

// SetIndex attaches row labels
func (d *Dataset) SetIndex(labels []string) {
	d.Index = append([]string(nil), labels...)
}

// Column returns the series stored under name. The slice is shared with the
// dataset and must not be modified.
func (d *Dataset) Column(name string) ([]float64, bool) {
	values, ok := d.values[name]
	return values, ok
}

// Rows returns the row count of the first column, or 0 for an empty dataset
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.values[d.Columns[0]])
}

// Validate checks the tabular contract: at least one column with rows, all
// columns of equal length, every value finite, and index labels (if any)
// covering every row.
func (d *Dataset) Validate() error {
	if len(d.Columns) == 0 || d.Rows() == 0 {
		return core.ErrEmptyDataset
	}
	rows := d.Rows()
	for _, col := range d.Columns {
		values := d.values[col]
		if len(values) != rows {
			return core.NewColumnError(col, fmt.Errorf("%w: %d rows, expected %d", core.ErrRaggedColumns, len(values), rows))
		}
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return core.NewColumnError(col, fmt.Errorf("%w at row %d", core.ErrNonFinite, i))
			}
		}
	}
	if len(d.Index) != 0 && len(d.Index) != rows {
		return fmt.Errorf("%w: index has %d labels for %d rows", core.ErrRaggedColumns, len(d.Index), rows)
	}
	return nil
}

// Select returns a dataset restricted to the named columns, in the given order
func (d *Dataset) Select(columns ...string) (*Dataset, error) {
	out := New(d.Name)
	out.SetIndex(d.Index)
	for _, col := range columns {
		values, ok := d.values[col]
		if !ok {
			return nil, core.NewColumnError(col, core.ErrColumnMissing)
		}
		if err := out.AddColumn(col, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Drop returns a dataset without the named columns. Unknown names are ignored.
func (d *Dataset) Drop(columns ...string) *Dataset {
	skip := make(map[string]bool, len(columns))
	for _, col := range columns {
		skip[col] = true
	}
	out := New(d.Name)
	out.SetIndex(d.Index)
	for _, col := range d.Columns {
		if !skip[col] {
			out.AddColumn(col, d.values[col])
		}
	}
	return out
}
