package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// HealthCSVParser handles the header-mapped health log export.
// Format: a header line naming the columns, then one line per day.
type HealthCSVParser struct{}

func NewHealthCSVParser() *HealthCSVParser {
	return &HealthCSVParser{}
}

func (p *HealthCSVParser) Name() string {
	return "health_csv"
}

// CanParse accepts text files whose first line uses the export column
// vocabulary. A header without an exact Date column still lands here and
// yields no entries.
func (p *HealthCSVParser) CanParse(fileName string, head []byte) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != "" && ext != ".csv" && ext != ".txt" {
		return false
	}
	return KnownHeader(head)
}

func (p *HealthCSVParser) Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return ParseHealthCSV(string(data)), nil
}

// RepairHeader fixes the known export defect where the Workout column name
// lands on its own line right after the header. Only line index 1 is ever
// inspected. The returned slice may share storage with lines.
func RepairHeader(lines []string) ([]string, bool) {
	if len(lines) < 2 || strings.TrimSpace(lines[1]) != ColWorkout {
		return lines, false
	}
	repaired := make([]string, 0, len(lines)-1)
	repaired = append(repaired, lines[0]+","+ColWorkout)
	repaired = append(repaired, lines[2:]...)
	return repaired, true
}

// SplitHeader splits a header line on commas and trims each name.
func SplitHeader(line string) []string {
	headers := strings.Split(line, ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	return headers
}

// SplitQuoted splits a line on commas that are outside double quotes. Quote
// characters toggle the quoted state and are dropped. Cells are trimmed, and
// the final cell is always emitted.
func SplitQuoted(line string) []string {
	var (
		cells    []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(cells, strings.TrimSpace(cur.String()))
}

// ParseHealthCSV converts the text of an uploaded health log into entries,
// in input order. Rows without a date are dropped; malformed weights and
// times are nulled. It never fails on row content.
func ParseHealthCSV(text string) *Result {
	lines, repaired := RepairHeader(strings.Split(StripBOM(text), "\n"))

	headers := SplitHeader(lines[0])
	hm := BuildHeaderMap(headers)
	res := &Result{Parser: "health_csv", Headers: headers}

	// Line numbers refer to the original file.
	offset := 1
	if repaired {
		offset = 2
	}

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		cells := SplitQuoted(line)
		get := func(col string) *string { return hm.Lookup(cells, col) }

		entry, ok := normalizeRow(res, i+offset, line, get)
		if !ok {
			continue
		}
		res.Entries = append(res.Entries, entry)
	}

	return res
}
