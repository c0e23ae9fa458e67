package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/google/uuid"
)

// Column names of the health log export. Matching is exact and
// case-sensitive after trimming.
const (
	ColDate    = "Date"
	ColWeight  = "Weight (kg)"
	ColAMRight = "BP AM Right"
	ColAMLeft  = "BP AM Left"
	ColAMTime  = "BP AM Time"
	ColAMNotes = "BP AM Notes"
	ColPMRight = "BP PM Right"
	ColPMLeft  = "BP PM Left"
	ColPMTime  = "BP PM Time"
	ColPMNotes = "BP PM Notes"
	ColWorkout = "Workout"
)

// Columns is the full vocabulary in export order.
var Columns = []string{
	ColDate, ColWeight,
	ColAMRight, ColAMLeft, ColAMTime, ColAMNotes,
	ColPMRight, ColPMLeft, ColPMTime, ColPMNotes,
	ColWorkout,
}

const byteOrderMark = "\ufeff"

// StripBOM removes a leading UTF-8 byte order mark, as written by
// spreadsheet exports.
func StripBOM(s string) string {
	return strings.TrimPrefix(s, byteOrderMark)
}

// KnownHeader reports whether the first line of head names any column of
// the export vocabulary, ignoring case.
func KnownHeader(head []byte) bool {
	first, _, _ := strings.Cut(StripBOM(string(head)), "\n")
	for _, h := range strings.Split(first, ",") {
		h = strings.TrimSpace(h)
		for _, col := range Columns {
			if strings.EqualFold(h, col) {
				return true
			}
		}
	}
	return false
}

// 24-hour clock, optional leading zero on the hour.
var timeRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTime reports whether s is an H:MM or HH:MM time of day.
func ValidTime(s string) bool {
	return timeRegex.MatchString(s)
}

// HeaderMap maps a column name to its index in a row.
type HeaderMap map[string]int

// BuildHeaderMap indexes trimmed header names. A repeated name resolves to
// its last position.
func BuildHeaderMap(headers []string) HeaderMap {
	hm := make(HeaderMap, len(headers))
	for i, h := range headers {
		hm[strings.TrimSpace(h)] = i
	}
	return hm
}

// Lookup returns the cell under column name, or nil when the column is
// unknown, the row is too short, or the cell is empty.
func (hm HeaderMap) Lookup(cells []string, name string) *string {
	idx, ok := hm[name]
	if !ok || idx >= len(cells) {
		return nil
	}
	v := cells[idx]
	if v == "" {
		return nil
	}
	return &v
}

// Result is the outcome of parsing one file.
type Result struct {
	Parser  string               `json:"parser"`
	Headers []string             `json:"headers"`
	Entries []models.HealthEntry `json:"entries"`
	Errors  []*models.ParseError `json:"-"`
	Skipped int                  `json:"skipped"` // rows dropped
	Coerced int                  `json:"coerced"` // fields degraded to null
}

func (r *Result) skip(line int, content, reason string) {
	r.Skipped++
	r.Errors = append(r.Errors, &models.ParseError{Line: line, Content: content, Reason: reason})
}

func (r *Result) coerce(line int, field, content, reason string) {
	r.Coerced++
	r.Errors = append(r.Errors, &models.ParseError{Line: line, Field: field, Content: content, Reason: reason})
}

// normalizeRow turns one mapped row into a HealthEntry. It returns false when
// the row has no date; every other defect only nulls the offending field.
func normalizeRow(res *Result, line int, raw string, get func(col string) *string) (models.HealthEntry, bool) {
	date := get(ColDate)
	if date == nil {
		res.skip(line, raw, "missing date")
		return models.HealthEntry{}, false
	}

	entry := models.HealthEntry{
		ID:        uuid.NewString(),
		Date:      *date,
		BPAMRight: get(ColAMRight),
		BPAMLeft:  get(ColAMLeft),
		BPAMNotes: get(ColAMNotes),
		BPPMRight: get(ColPMRight),
		BPPMLeft:  get(ColPMLeft),
		BPPMNotes: get(ColPMNotes),
		Workout:   get(ColWorkout),
	}

	if w := get(ColWeight); w != nil {
		v, err := parseWeight(*w)
		if err != nil {
			res.coerce(line, ColWeight, *w, err.Error())
		} else {
			entry.Weight = &v
		}
	}

	entry.BPAMTime = checkTime(res, line, ColAMTime, get(ColAMTime))
	entry.BPPMTime = checkTime(res, line, ColPMTime, get(ColPMTime))

	return entry, true
}

func parseWeight(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable weight")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("weight is not a finite number")
	}
	return v, nil
}

func checkTime(res *Result, line int, field string, v *string) *string {
	if v == nil {
		return nil
	}
	if !ValidTime(*v) {
		res.coerce(line, field, *v, "invalid time of day")
		return nil
	}
	return v
}
