// Package ingest reads uploaded tabular files (csv or xlsx) into a
// header-normalized table that the import services consume.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")
	ErrNoData            = errors.New("file has no data rows (the first row is the header)")
	ErrTooManyRows       = errors.New("file has too many rows")
	ErrMalformed         = errors.New("file could not be read")
)

// ErrMissingColumns the header lacks required columns
type ErrMissingColumns struct {
	Missing []string
}

func (e *ErrMissingColumns) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Row one data row; Line is the 1-based line in the source file
type Row struct {
	Line  int
	Cells []string
}

// Table parsed upload
type Table struct {
	// Header normalized column names
	Header []string
	// RawHeader column names as they appear in the file, trimmed
	RawHeader []string
	Rows      []Row

	index map[string]int
}

// Has reports whether the normalized column exists
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Get cell value of a normalized column, "" if absent
func (t *Table) Get(r Row, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

// Cell value by column position
func (t *Table) Cell(r Row, i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

// ReadTable parses a csv or xlsx upload. maxRows <= 0 disables the row limit.
func ReadTable(filename string, r io.Reader, maxRows int) (*Table, error) {
	var (
		records []record
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	t := &Table{index: make(map[string]int)}
	for i, h := range records[0].cells {
		raw := strings.TrimSpace(h)
		if i == 0 {
			raw = strings.TrimPrefix(raw, "\uFEFF")
		}
		norm := NormalizeHeader(raw)
		t.RawHeader = append(t.RawHeader, raw)
		t.Header = append(t.Header, norm)
		if _, dup := t.index[norm]; !dup && norm != "" {
			t.index[norm] = i
		}
	}

	for _, rec := range records[1:] {
		if blank(rec.cells) {
			continue
		}
		t.Rows = append(t.Rows, Row{Line: rec.line, Cells: rec.cells})
	}

	if len(t.Rows) == 0 {
		return nil, ErrNoData
	}
	if maxRows > 0 && len(t.Rows) > maxRows {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyRows, len(t.Rows), maxRows)
	}
	return t, nil
}

// Require checks that every column is present after normalization
func Require(t *Table, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &ErrMissingColumns{Missing: missing}
	}
	return nil
}

// ── readers ──

// record one source row and the 1-based line it starts on
type record struct {
	line  int
	cells []string
}

func readCSV(r io.Reader) ([]record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []record
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %w", ErrMalformed, err)
		}
		// blank lines are skipped by the reader and quoted fields may span lines
		line, _ := cr.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return records, nil
}

func readXLSX(r io.Reader) ([]record, error) {
	// excelize needs random access
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %w", ErrMalformed, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: sheet: %w", ErrMalformed, err)
	}
	records := make([]record, len(rows))
	for i, cells := range rows {
		records[i] = record{line: i + 1, cells: cells}
	}
	return records, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
