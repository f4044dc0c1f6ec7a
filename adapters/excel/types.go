package excel

// RawRowData represents a row of raw spreadsheet data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete sheet as strings
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
