package excel

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"gotyche/domain/core"
	"gotyche/domain/dataset"
)

// ToDataset turns string rows into a numeric dataset. The date column
// becomes the row index; cells that do not parse as numbers become NaN and
// their rows are dropped. Columns that hold no number at all are skipped.
func ToDataset(name string, data *ExcelData, cfg ReaderConfig) (*dataset.Dataset, error) {
	if data == nil || len(data.Rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	dropped := make(map[string]bool, len(cfg.DropColumns))
	for _, col := range cfg.DropColumns {
		dropped[col] = true
	}

	ds := dataset.New(name)
	for _, header := range data.Headers {
		if header == "" || header == cfg.DateColumn || dropped[header] {
			continue
		}
		values := make([]float64, len(data.Rows))
		parsed := 0
		for i, row := range data.Rows {
			v, ok := parseNumber(row[header])
			if !ok {
				values[i] = math.NaN()
				continue
			}
			values[i] = v
			parsed++
		}
		if parsed == 0 {
			log.Printf("[DataReader] Skipping non-numeric column %q", header)
			continue
		}
		if err := ds.AddColumn(header, values); err != nil {
			return nil, err
		}
	}
	if len(ds.Columns) == 0 {
		return nil, fmt.Errorf("%w: no numeric columns in %s", core.ErrEmptyDataset, name)
	}

	if cfg.DateColumn != "" {
		if _, ok := data.Rows[0][cfg.DateColumn]; ok {
			labels := make([]string, len(data.Rows))
			for i, row := range data.Rows {
				labels[i] = row[cfg.DateColumn]
			}
			ds.SetIndex(labels)
		}
	}

	ds = ds.DropIncomplete()
	if cfg.Reverse {
		ds = ds.Reverse()
	}
	if cfg.RelDiff {
		ds = ds.RelativeDiff().DropIncomplete()
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// parseNumber accepts plain numbers plus thousands separators and percent
// signs as found in exported price sheets
func parseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	percent := strings.HasSuffix(cell, "%")
	cell = strings.TrimSuffix(cell, "%")
	cell = strings.ReplaceAll(cell, ",", "")
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if percent {
		v /= 100
	}
	return v, true
}
