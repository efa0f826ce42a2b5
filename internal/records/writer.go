package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Writer appends rows to one partitioned output CSV stream. The header is
// written exactly once: when creating or overwriting the file, never when
// appending to an existing non-empty file.
type Writer struct {
	file    *os.File
	csv     *csv.Writer
	columns []string
}

// NewWriter opens the output stream at path with the given column order.
// When appendMode is true and the file already holds data, rows are appended
// without a header; otherwise the file is created (or truncated) and the
// header written.
func NewWriter(path string, columns []string, appendMode bool) (*Writer, error) {
	if len(columns) == 0 {
		return nil, errors.New("output writer requires at least one column")
	}

	needHeader := true
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			needHeader = false
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat output %s: %w", path, err)
		}
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}

	w := &Writer{
		file:    file,
		csv:     csv.NewWriter(file),
		columns: append([]string(nil), columns...),
	}
	if needHeader {
		if err := w.csv.Write(w.columns); err != nil {
			file.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	return w, nil
}

// Append writes one row, pulling values from fields in column order. Missing
// columns become empty values. The row is flushed immediately so a killed
// process loses no already-partitioned rows.
func (w *Writer) Append(fields map[string]string) error {
	record := make([]string, len(w.columns))
	for i, column := range w.columns {
		record[i] = fields[column]
	}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file.
func (w *Writer) Close() error {
	w.csv.Flush()
	flushErr := w.csv.Error()
	closeErr := w.file.Close()
	if flushErr != nil {
		return fmt.Errorf("flush output: %w", flushErr)
	}
	return closeErr
}
