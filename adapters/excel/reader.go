package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chemgps/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	cfg      Config
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(cfg Config, log *internal.Logger) *DataReader {
	if cfg.Sheet == "" {
		cfg.Sheet = DefaultSheet
	}
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{cfg: cfg, fileType: fileType, log: log}
}

// ReadTable reads the whole file into a Table.
func (r *DataReader) ReadTable() (*Table, error) {
	r.log.Debug("reading %s file %s", r.fileType, r.cfg.FilePath)

	if _, err := os.Stat(r.cfg.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.cfg.FilePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcelData() (*Table, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.cfg.Sheet, err)
	}
	r.log.Debug("%s read in %.2fms (%d rows)", r.cfg.Sheet, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return processRows(rows)
}

func (r *DataReader) readCSVData() (*Table, error) {
	file, err := os.Open(r.cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses CSV text with a header row into a Table.
func ReadCSV(in io.Reader) (*Table, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return processRows(rows)
}

// processRows trims every cell and splits off the header row.
func processRows(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("data must have at least a header row and one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		data = append(data, cells)
	}

	return &Table{Headers: headers, Rows: data}, nil
}
