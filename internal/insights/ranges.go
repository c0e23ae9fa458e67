package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/models"
)

// Range selects how far back a chart or average looks.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeAll   Range = "all"
)

// ParseRange validates s; empty means all.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(s)); r {
	case "":
		return RangeAll, nil
	case RangeDay, RangeWeek, RangeMonth, RangeAll:
		return r, nil
	}
	return "", fmt.Errorf("unknown range %q (want day, week, month or all)", s)
}

// Since returns the first date key included by r, or "" for all.
func (r Range) Since(now time.Time) string {
	switch r {
	case RangeDay:
		return calendar.Key(now)
	case RangeWeek:
		return calendar.MondayKey(now)
	case RangeMonth:
		return calendar.Key(calendar.StartOfMonth(now))
	}
	return ""
}

// Filter keeps the entries dated on or after the start of r.
func Filter(entries []models.HealthEntry, r Range, now time.Time) []models.HealthEntry {
	since := r.Since(now)
	if since == "" {
		return entries
	}
	out := make([]models.HealthEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date >= since {
			out = append(out, e)
		}
	}
	return out
}

// Averages computes reading averages for today, this week and this month.
func Averages(entries []models.HealthEntry, now time.Time) models.BPAverages {
	return models.BPAverages{
		Daily:   ReadingAverage(Filter(entries, RangeDay, now)),
		Weekly:  ReadingAverage(Filter(entries, RangeWeek, now)),
		Monthly: ReadingAverage(Filter(entries, RangeMonth, now)),
	}
}

// DayAverages is Averages using one representative reading per day.
func DayAverages(entries []models.HealthEntry, now time.Time) models.BPAverages {
	return models.BPAverages{
		Daily:   DayAverage(Filter(entries, RangeDay, now)),
		Weekly:  DayAverage(Filter(entries, RangeWeek, now)),
		Monthly: DayAverage(Filter(entries, RangeMonth, now)),
	}
}
