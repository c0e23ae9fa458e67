package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var zipMagic = []byte("PK\x03\x04")

// XLSXParser reads the first worksheet of a workbook laid out like the CSV
// export: one header row, one row per day.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Name() string {
	return "xlsx"
}

func (p *XLSXParser) CanParse(fileName string, head []byte) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		return true
	}
	return bytes.HasPrefix(head, zipMagic)
}

func (p *XLSXParser) Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	res := &Result{Parser: p.Name()}
	if len(rows) == 0 {
		return res, nil
	}

	headers := rows[0]
	start := 1
	// Same export defect as the CSV: Workout alone on the second row.
	if len(rows) > 1 && isLoneWorkout(rows[1]) {
		headers = append(append([]string{}, headers...), ColWorkout)
		start = 2
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(StripBOM(headers[i]))
	}
	res.Headers = headers
	hm := BuildHeaderMap(headers)

	for i := start; i < len(rows); i++ {
		cells := make([]string, len(rows[i]))
		empty := true
		for j, c := range rows[i] {
			cells[j] = strings.TrimSpace(c)
			if cells[j] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		get := func(col string) *string { return hm.Lookup(cells, col) }

		entry, ok := normalizeRow(res, i+1, strings.Join(cells, ","), get)
		if !ok {
			continue
		}
		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}

func isLoneWorkout(row []string) bool {
	found := false
	for _, c := range row {
		switch strings.TrimSpace(c) {
		case "":
		case ColWorkout:
			if found {
				return false
			}
			found = true
		default:
			return false
		}
	}
	return found
}
