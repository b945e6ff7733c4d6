package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sastra-some/duty-portal/pkg/core/model"
)

// Table is a raw table read from a delimited-text file.
// Headers are recorded for the few lookups that match on header text
// (the V1..V5 blocked-date columns and the reconciler's fuzzy match);
// everything else binds columns by position.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnCount returns the width of the header row
func (t *Table) ColumnCount() int {
	return len(t.Headers)
}

// Cell returns the trimmed cell at (row, col), or "" when the row is
// shorter than col. Source tables are frequently ragged.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// FindColumn returns the index of the first header exactly matching name
// after trimming, case-insensitively, or -1
func (t *Table) FindColumn(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// FindColumnContaining returns the index of the first header containing
// the given substring case-insensitively, or -1
func (t *Table) FindColumnContaining(substr string) int {
	needle := strings.ToLower(substr)
	for i, h := range t.Headers {
		if strings.Contains(strings.ToLower(h), needle) {
			return i
		}
	}
	return -1
}

// searchExtensions are the delimited-text extensions tried, in order,
// when locating a table by basename
var searchExtensions = []string{".csv", ".tsv", ".txt"}

// FindFile locates a table file by basename within dir, trying each
// known extension in order
func FindFile(dir, basename string) (string, error) {
	for _, ext := range searchExtensions {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no table file found for %q in %s (tried %s)",
		basename, dir, strings.Join(searchExtensions, ", "))
}

// ReadFile reads a delimited-text table. Comma-delimited by default,
// tab-delimited for .tsv files. Ragged rows are tolerated.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse table file %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &Table{
		Headers: headers,
		Rows:    records[1:],
	}, nil
}

// dayFirstLayouts are tried in order when parsing source dates.
// Source tables use day-first conventions with varying separators; the
// ISO layout is a fallback for exported data.
var dayFirstLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2-1-2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
	"2006-01-02",
}

// ParseDayFirstDate parses a day-first date string, returning a
// midnight-UTC calendar date
func ParseDayFirstDate(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}
	// Strip a time-of-day suffix if the source exported timestamps
	if idx := strings.IndexAny(cleaned, " T"); idx > 0 {
		cleaned = cleaned[:idx]
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return model.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}
