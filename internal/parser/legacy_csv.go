package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// LegacyCSVParser handles the positional spreadsheet dump used by the old
// bulk import script: the first line is ignored and columns are read in the
// fixed export order regardless of their names.
type LegacyCSVParser struct {
	hm HeaderMap
}

func NewLegacyCSVParser() *LegacyCSVParser {
	return &LegacyCSVParser{hm: BuildHeaderMap(Columns)}
}

func (p *LegacyCSVParser) Name() string {
	return "legacy_csv"
}

// CanParse accepts .csv files whose header shares no name with the export
// vocabulary. Anything else is header-mapped.
func (p *LegacyCSVParser) CanParse(fileName string, head []byte) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".csv") && !KnownHeader(head)
}

func (p *LegacyCSVParser) Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	res := &Result{Parser: p.Name(), Headers: Columns}
	lines := strings.Split(StripBOM(string(data)), "\n")

	header := true
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if header {
			header = false
			continue
		}

		cells := SplitQuoted(line)
		if len(cells) < 2 || cells[0] == "" {
			res.skip(i+1, line, "missing date")
			continue
		}
		get := func(col string) *string { return p.hm.Lookup(cells, col) }

		entry, ok := normalizeRow(res, i+1, line, get)
		if !ok {
			continue
		}
		if !entry.HasMeasurements() {
			res.skip(i+1, line, "no measurements")
			continue
		}
		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}
