// Package dataset holds a minimal column-oriented view over CSV files.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wine-quality-service/internal/core/domain"
)

// Column dtypes, named the way the dataset tooling names them.
const (
	DTypeInt64   = "int64"
	DTypeFloat64 = "float64"
	DTypeBool    = "bool"
	DTypeObject  = "object"
)

// Frame is a header plus string records read from a CSV file.
type Frame struct {
	Header  []string
	Records [][]string
	index   map[string]int
}

func NewFrame(header []string, records [][]string) *Frame {
	f := &Frame{Header: header, Records: records, index: make(map[string]int, len(header))}
	for i, h := range header {
		f.index[h] = i
	}
	return f
}

// ReadCSV loads a comma separated file with a header row.
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()
	return Read(file)
}

func Read(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyDataset
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return NewFrame(header, rows[1:]), nil
}

// WriteCSV writes the frame with its header, creating parent directories.
func (f *Frame) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(f.Header); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(f.Records); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (f *Frame) Len() int { return len(f.Records) }

func (f *Frame) columnIndex(name string) (int, error) {
	i, ok := f.index[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, domain.ErrColumnNotFound)
	}
	return i, nil
}

// DType infers a column's dtype: int64 when every value is an integer,
// float64 when every value is numeric, bool for true/false and object otherwise.
// An empty cell makes an integer column float64 (missing values are NaN).
func (f *Frame) DType(name string) (string, error) {
	idx, err := f.columnIndex(name)
	if err != nil {
		return "", err
	}
	if len(f.Records) == 0 {
		return DTypeObject, nil
	}

	isInt, isFloat, isBool := true, true, true
	hasMissing := false
	for _, rec := range f.Records {
		if idx >= len(rec) {
			hasMissing = true
			continue
		}
		v := strings.TrimSpace(rec[idx])
		if v == "" {
			hasMissing = true
			continue
		}
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			isFloat = false
		}
		if lv := strings.ToLower(v); lv != "true" && lv != "false" {
			isBool = false
		}
	}

	switch {
	case isInt && !hasMissing:
		return DTypeInt64, nil
	case isFloat:
		return DTypeFloat64, nil
	case isBool && !hasMissing:
		return DTypeBool, nil
	default:
		return DTypeObject, nil
	}
}

// Floats returns a numeric column.
func (f *Frame) Floats(name string) ([]float64, error) {
	idx, err := f.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(f.Records))
	for i, rec := range f.Records {
		if idx >= len(rec) {
			return nil, fmt.Errorf("row %d: short record", i+1)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", i+1, name, err)
		}
		out[i] = v
	}
	return out, nil
}

// Matrix returns the named columns as row-major feature rows.
func (f *Frame) Matrix(columns []string) ([][]float64, error) {
	X := make([][]float64, len(f.Records))
	for i := range X {
		X[i] = make([]float64, len(columns))
	}
	for j, name := range columns {
		col, err := f.Floats(name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			X[i][j] = v
		}
	}
	return X, nil
}

// Subset returns a frame sharing the header with the selected rows.
func (f *Frame) Subset(rows []int) *Frame {
	records := make([][]string, 0, len(rows))
	for _, i := range rows {
		records = append(records, f.Records[i])
	}
	return NewFrame(f.Header, records)
}
