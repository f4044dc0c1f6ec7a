package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gotyche/domain/core"
	"gotyche/domain/dataset"
	"gotyche/internal/errors"
	"gotyche/ports"
)

var _ ports.DatasetReader = (*DataReader)(nil)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	return &DataReader{filePath: filePath, fileType: FileType(filePath), config: config}
}

// FileType returns "csv" for .csv files and "xlsx" otherwise
func FileType(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}

// ReadDataset reads the file and converts it into a dataset named after it
func (r *DataReader) ReadDataset() (*dataset.Dataset, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(r.filePath), filepath.Ext(r.filePath))
	return ToDataset(name, data, r.config)
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s file", r.fileType)
	}
	defer file.Close()

	data, err := ReadFrom(file, r.fileType, r.config.Sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.filePath)
	}
	return data, nil
}

// ReadFrom parses a CSV or xlsx document from an arbitrary reader
func ReadFrom(src io.Reader, fileType, sheet string) (*ExcelData, error) {
	switch fileType {
	case "csv":
		return readCSVData(src)
	case "xlsx":
		return readExcelData(src, sheet)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// readExcelData reads one worksheet, the first one when sheet is empty
func readExcelData(src io.Reader, sheet string) (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: Excel file has no sheets", core.ErrEmptyDataset)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: Excel file must have at least a header row and one data row", core.ErrEmptyDataset)
	}
	return processRows(rows, "xlsx")
}

// readCSVData reads CSV data into structured format
func readCSVData(src io.Reader) (*ExcelData, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: CSV file must have at least a header row and one data row", core.ErrEmptyDataset)
	}
	return processRows(rows, "csv")
}

// processRows converts raw string rows into ExcelData format
func processRows(rows [][]string, fileType string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
