package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"golisting/domain/core"
	"golisting/internal"
)

var logger = internal.NewLogger("DataReader")

// DataReader handles reading Excel and CSV sources into a RawTable
type DataReader struct {
	filePath  string
	fileType  string // "xlsx" or "csv"
	headerRow int
}

// NewDataReader creates a reader for one source. headerRow is the zero-based
// row whose cells become the column labels; rows before it are discarded.
func NewDataReader(filePath string, headerRow int) (*DataReader, error) {
	if headerRow < 0 {
		headerRow = 0
	}

	var fileType string
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xls":
		fileType = "xlsx"
	case ".csv":
		fileType = "csv"
	default:
		return nil, core.NewUnsupportedSourceError(filePath)
	}

	return &DataReader{filePath: filePath, fileType: fileType, headerRow: headerRow}, nil
}

// ReadData reads the full source into memory and releases it before
// returning. The open handle never escapes the reader.
func (r *DataReader) ReadData() (*RawTable, error) {
	logger.Debug("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, core.NewSourceNotFoundError(r.filePath, err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVRows()
	default:
		return r.readExcelRows()
	}
}

// readExcelRows reads the first sheet of a workbook
func (r *DataReader) readExcelRows() (*RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, core.NewSourceNotFoundError(r.filePath, err)
	}
	defer f.Close()
	logger.Debug("Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewEmptySourceError(r.filePath, r.headerRow)
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, core.NewSourceNotFoundError(r.filePath, err)
	}
	logger.Debug("Sheet %s read in %.2fms (%d rows)", sheets[0],
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVRows reads a CSV file with ragged rows allowed
func (r *DataReader) readCSVRows() (*RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, core.NewSourceNotFoundError(r.filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewSourceNotFoundError(r.filePath, err)
	}
	logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows applies the header offset and converts raw rows into RawTable
// form. Columns with an empty label after trimming are dropped.
func (r *DataReader) processRows(rows [][]string) (*RawTable, error) {
	if len(rows) <= r.headerRow+1 {
		return nil, core.NewEmptySourceError(r.filePath, r.headerRow)
	}

	headerRow := rows[r.headerRow]
	headers := make([]string, 0, len(headerRow))
	headerIndex := make(map[int]string, len(headerRow))
	for i, header := range headerRow {
		label := strings.TrimSpace(header)
		if label == "" {
			continue
		}
		headers = append(headers, label)
		headerIndex[i] = label
	}
	if len(headers) == 0 {
		return nil, core.NewEmptySourceError(r.filePath, r.headerRow)
	}

	dataRows := make([]RawRow, 0, len(rows)-r.headerRow-1)
	for i := r.headerRow + 1; i < len(rows); i++ {
		rowData := make(RawRow, len(headers))
		for j, cell := range rows[i] {
			if label, ok := headerIndex[j]; ok {
				rowData[label] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	logger.Info("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &RawTable{Headers: headers, Rows: dataRows, Path: r.filePath}, nil
}
