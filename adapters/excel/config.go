package excel

import (
	"gotyche/internal/config"
)

// ReaderConfig controls how a sheet becomes a dataset
type ReaderConfig struct {
	// Sheet names the worksheet to read; empty selects the first sheet
	Sheet string `json:"sheet"`

	// DateColumn labels rows and is excluded from the numeric columns
	DateColumn string `json:"date_column"`

	// DropColumns are removed before conversion
	DropColumns []string `json:"drop_columns"`

	// Reverse flips row order, for sources that list the newest row first
	Reverse bool `json:"reverse"`

	// RelDiff replaces prices by their row-over-row relative change
	RelDiff bool `json:"rel_diff"`
}

// DefaultReaderConfig returns sensible defaults for price files
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{DateColumn: "Date"}
}

// ReaderConfigFrom maps the data section of the application configuration
func ReaderConfigFrom(cfg config.DataConfig) ReaderConfig {
	return ReaderConfig{
		Sheet:       cfg.Sheet,
		DateColumn:  cfg.DateColumn,
		DropColumns: cfg.DropColumns,
		Reverse:     cfg.Reverse,
		RelDiff:     cfg.RelDiff,
	}
}
