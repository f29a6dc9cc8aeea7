// Package importer turns spreadsheet rows into vocabulary entries.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// Row is one spreadsheet row: word, definition and optional context, in
// that column order.
type Row struct {
	Line       int // 1-based row number in the source file
	Word       string
	Definition string
	Context    string
}

// ReadFile reads rows from an .xlsx or .csv file, chosen by extension.
func ReadFile(path string) ([]Row, error) {
	var read func(io.Reader) ([]Row, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		read = ReadXLSX
	case ".csv":
		read = ReadCSV
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return read(f)
}

// ReadXLSX reads rows from the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return toRows(cells), nil
}

// ReadCSV reads rows from comma separated text. Rows may have any number
// of columns.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(cells) > 0 && len(cells[0]) > 0 {
		cells[0][0] = strings.TrimPrefix(cells[0][0], "\ufeff")
	}
	return toRows(cells), nil
}

// toRows maps raw cells to rows, skipping a leading header row whose first
// cell is "word" and rows that are entirely blank.
func toRows(cells [][]string) []Row {
	rows := make([]Row, 0, len(cells))
	for i, record := range cells {
		if i == 0 && isHeader(record) {
			continue
		}

		row := Row{
			Line:       i + 1,
			Word:       cell(record, 0),
			Definition: cell(record, 1),
			Context:    cell(record, 2),
		}
		if row.Word == "" && row.Definition == "" && row.Context == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func isHeader(record []string) bool {
	return strings.EqualFold(cell(record, 0), "word")
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
