// Package insights derives averages, trends and chart series from health
// entries.
package insights

import (
	"math"
	"regexp"
	"strconv"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/montanaflynn/stats"
)

var bpRegex = regexp.MustCompile(`(\d+)/(\d+)`)

// Reading is one systolic/diastolic pair.
type Reading struct {
	Systolic  int
	Diastolic int
}

// High reports whether the reading is at or above 140/90 on either value.
func (r Reading) High() bool {
	return r.Systolic >= 140 || r.Diastolic >= 90
}

// ParseBP extracts the first "sys/dia" pair from s.
func ParseBP(s string) (Reading, bool) {
	m := bpRegex.FindStringSubmatch(s)
	if m == nil {
		return Reading{}, false
	}
	sys, err1 := strconv.Atoi(m[1])
	dia, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return Reading{}, false
	}
	return Reading{Systolic: sys, Diastolic: dia}, true
}

func parseField(p *string) (Reading, bool) {
	if p == nil {
		return Reading{}, false
	}
	return ParseBP(*p)
}

// Readings returns every parseable reading of e: AM right, AM left, PM
// right, PM left.
func Readings(e *models.HealthEntry) []Reading {
	var out []Reading
	for _, p := range []*string{e.BPAMRight, e.BPAMLeft, e.BPPMRight, e.BPPMLeft} {
		if r, ok := parseField(p); ok {
			out = append(out, r)
		}
	}
	return out
}

// ArmAverage averages the right and left readings of one session. With only
// one arm measured that reading is used as is.
func ArmAverage(right, left *string) (Reading, bool) {
	r, okR := parseField(right)
	l, okL := parseField(left)
	switch {
	case okR && okL:
		return Reading{
			Systolic:  round(float64(r.Systolic+l.Systolic) / 2),
			Diastolic: round(float64(r.Diastolic+l.Diastolic) / 2),
		}, true
	case okR:
		return r, true
	case okL:
		return l, true
	}
	return Reading{}, false
}

// DayReading is the representative reading of a day: the evening session
// when measured, otherwise the morning one.
func DayReading(e *models.HealthEntry) (Reading, bool) {
	if r, ok := ArmAverage(e.BPPMRight, e.BPPMLeft); ok {
		return r, true
	}
	return ArmAverage(e.BPAMRight, e.BPAMLeft)
}

// ReadingAverage averages every individual reading across entries.
func ReadingAverage(entries []models.HealthEntry) *models.BPAverage {
	var readings []Reading
	for i := range entries {
		readings = append(readings, Readings(&entries[i])...)
	}
	return average(readings)
}

// DayAverage averages the representative reading of each entry.
func DayAverage(entries []models.HealthEntry) *models.BPAverage {
	var readings []Reading
	for i := range entries {
		if r, ok := DayReading(&entries[i]); ok {
			readings = append(readings, r)
		}
	}
	return average(readings)
}

func average(readings []Reading) *models.BPAverage {
	if len(readings) == 0 {
		return nil
	}
	sys := make(stats.Float64Data, len(readings))
	dia := make(stats.Float64Data, len(readings))
	for i, r := range readings {
		sys[i] = float64(r.Systolic)
		dia[i] = float64(r.Diastolic)
	}
	ms, err := stats.Mean(sys)
	if err != nil {
		return nil
	}
	md, err := stats.Mean(dia)
	if err != nil {
		return nil
	}
	return &models.BPAverage{Systolic: round(ms), Diastolic: round(md)}
}

// round matches half-up rounding for the non-negative values used here.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
