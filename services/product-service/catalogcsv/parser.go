// Package catalogcsv reads and writes the catalog feed used by bulk import
// and export. The quoting rules are the feed's own: "" escapes a quote inside
// a quoted field, and records never span lines.
package catalogcsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoDataRows is the structural error for a feed without a header and at
// least one data row.
var ErrNoDataRows = errors.New("file must contain a header row and at least one data row")

// Row is one data line keyed by header name. Line is the 1-based position of
// the row as a spreadsheet shows it, with the header on line 1.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get returns the named field, or "" when the row is short or the column is absent.
func (r Row) Get(name string) string {
	return r.Fields[name]
}

// Parse reads a whole feed. Blank lines are dropped before the header is
// taken, so Line counts non-blank lines only.
func Parse(r io.Reader) ([]Row, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	if len(lines) < 2 {
		return nil, ErrNoDataRows
	}

	header := ParseLine(lines[0])
	rows := make([]Row, 0, len(lines)-1)
	for i, line := range lines[1:] {
		rows = append(rows, zip(header, ParseLine(line), i+2))
	}
	return rows, nil
}

// ParseLine splits one record into cleaned field values.
func ParseLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			current.WriteByte('"')
			i++
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, clean(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	return append(fields, clean(current.String()))
}

// FromRecords builds rows from already split records, such as spreadsheet
// cells. records[0] is the header. Blank records are dropped.
func FromRecords(records [][]string) ([]Row, error) {
	var kept [][]string
	for _, rec := range records {
		if !blankRecord(rec) {
			kept = append(kept, rec)
		}
	}
	if len(kept) < 2 {
		return nil, ErrNoDataRows
	}

	header := cleanAll(kept[0])
	rows := make([]Row, 0, len(kept)-1)
	for i, rec := range kept[1:] {
		rows = append(rows, zip(header, cleanAll(rec), i+2))
	}
	return rows, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

func zip(header, values []string, line int) Row {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(values) {
			fields[name] = values[i]
		} else {
			fields[name] = ""
		}
	}
	return Row{Line: line, Fields: fields}
}

// clean unwraps one stray pair of outer quotes left after the scan, then
// trims. A value is only unwrapped when it both starts and ends with a quote,
// so text ending in an escaped quote survives.
func clean(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	return strings.TrimSpace(v)
}

func cleanAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = clean(v)
	}
	return out
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
