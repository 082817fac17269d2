// Package excel reads local .xlsx workbooks and .csv files into record
// views for offline profiling. The HTTP surface takes CSV text directly;
// this reader serves the CLI.
package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ptengelmann/ProfilanIQ/adapters/csvparse"
	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/internal"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

// DataReader handles reading Excel and CSV files.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader for the path, picking the format from the
// extension.
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger.Tagged("DataReader")}
}

// ReadTable loads the file into a record view.
func (r *DataReader) ReadTable(opts ports.ParseOptions) (*dataset.Table, ports.ParseStats, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, ports.ParseStats{}, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV(opts)
	case "xlsx":
		return r.readExcel()
	default:
		return nil, ports.ParseStats{}, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readCSV(opts ports.ParseOptions) (*dataset.Table, ports.ParseStats, error) {
	content, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, ports.ParseStats{}, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return csvparse.New(r.logger).Parse(string(content), opts)
}

// readExcel reads the first sheet of the workbook: header row plus data rows. Cells
// are typed the same way CSV fields are.
func (r *DataReader) readExcel() (*dataset.Table, ports.ParseStats, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, ports.ParseStats{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = "Sheet1"
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, ports.ParseStats{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 1 {
		return nil, ports.ParseStats{}, fmt.Errorf("workbook has no header row")
	}

	header := rows[0]
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	stats := ports.ParseStats{}
	cells := make([][]dataset.Cell, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		if isBlank(raw) {
			stats.SkippedRows++
			continue
		}
		row := make([]dataset.Cell, len(columns))
		for i := range columns {
			// excelize returns short rows for trailing empties.
			if i < len(raw) {
				row[i] = csvparse.CoerceField(raw[i])
			} else {
				row[i] = dataset.Null()
			}
		}
		cells = append(cells, row)
	}

	table, err := dataset.New(columns, cells)
	if err != nil {
		return nil, stats, fmt.Errorf("invalid workbook shape: %w", err)
	}
	r.logger.Info("loaded %s (%d columns, %d rows)", filepath.Base(r.filePath), len(columns), table.Len())
	return table, stats, nil
}

func isBlank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
