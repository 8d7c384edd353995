// Package csvx reads uploaded tabular files into header-indexed tables.
//
// Source systems export these reports inconsistently: some tab-separated,
// some comma-separated, with quoted headers and trailing blank lines. This
// package absorbs those differences at the boundary so the analysis core
// only ever sees clean rows.
package csvx

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is a parsed input table: a cleaned header row plus data rows.
type Table struct {
	// Name identifies the table in error messages ("user_groups", "grants").
	Name string

	Headers []string
	Rows    [][]string

	index map[string]int
}

// Read parses r into a Table. The delimiter is sniffed from the first line:
// a tab wins over a comma, matching how the upstream exports behave.
// Fully empty rows are dropped. Rows may have fewer fields than the header;
// Field returns "" for missing positions.
func Read(name string, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	content := strings.TrimPrefix(string(data), "\ufeff")
	if strings.TrimSpace(content) == "" {
		return &Table{Name: name, index: map[string]int{}}, nil
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = sniffDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if len(records) == 0 {
		return &Table{Name: name, index: map[string]int{}}, nil
	}

	t := &Table{Name: name, index: make(map[string]int, len(records[0]))}
	for i, h := range records[0] {
		h = CleanHeader(h)
		t.Headers = append(t.Headers, h)
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	for _, row := range records[1:] {
		if emptyRow(row) {
			continue
		}
		cleaned := make([]string, len(row))
		for i, v := range row {
			cleaned[i] = strings.TrimSpace(v)
		}
		t.Rows = append(t.Rows, cleaned)
	}

	return t, nil
}

// NewTable builds a Table from already-parsed rows. Used by callers that do
// not go through Read, such as tests and programmatic pipelines.
func NewTable(name string, headers []string, rows [][]string) *Table {
	t := &Table{Name: name, Headers: headers, Rows: rows, index: make(map[string]int, len(headers))}
	for i, h := range headers {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	return t
}

// sniffDelimiter inspects the first line of content and picks tab over comma.
func sniffDelimiter(content string) rune {
	firstLine, _, _ := strings.Cut(content, "\n")
	if strings.ContainsRune(firstLine, '\t') {
		return '\t'
	}
	return ','
}

// CleanHeader strips whitespace and stray quote characters from a header cell.
func CleanHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.ReplaceAll(h, `"`, "")
	return strings.TrimSpace(h)
}

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumns reports whether every named column exists, returning the first
// missing name otherwise.
func (t *Table) HasColumns(names ...string) (string, bool) {
	for _, n := range names {
		if _, ok := t.index[n]; !ok {
			return n, false
		}
	}
	return "", true
}

// Field returns the value of the named column in row, or "" when the column
// is unknown or the row is short.
func (t *Table) Field(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func emptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
