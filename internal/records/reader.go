package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one input CSV row. Index is the zero-based data-row position in the
// source file; Fields maps column names to raw values and is passed through
// verbatim to output.
type Row struct {
	Index  int
	Fields map[string]string
}

// Field returns the trimmed value of the named column.
func (r Row) Field(name string) string {
	return strings.TrimSpace(r.Fields[name])
}

// ReadFile reads an entire CSV file, returning the header in original column
// order and one Row per data row. Short records are padded with empty values.
func ReadFile(path string) ([]string, []Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("input %s is empty", path)
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for index := 0; ; index++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", index, err)
		}
		fields := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				fields[column] = record[i]
			} else {
				fields[column] = ""
			}
		}
		rows = append(rows, Row{Index: index, Fields: fields})
	}
	return header, rows, nil
}
