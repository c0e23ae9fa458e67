// Package calendar computes the date keys the app groups data by: days,
// weeks starting Monday (work status, health) or Sunday (tasks), months and
// quarters. Keys are YYYY-MM-DD strings in local time.
package calendar

import "time"

// DateLayout is the layout of every date key.
const DateLayout = "2006-01-02"

// ParseDate parses a date key as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// Key formats t as a date key.
func Key(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the most recent day on or before t that
// falls on first.
func WeekStart(t time.Time, first time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekRange returns the first and last day of t's week.
func WeekRange(t time.Time, first time.Weekday) (start, end time.Time) {
	start = WeekStart(t, first)
	return start, start.AddDate(0, 0, 6)
}

// MondayKey is the key of t's Monday-start week.
func MondayKey(t time.Time) string {
	return Key(WeekStart(t, time.Monday))
}

// SundayKey is the key of t's Sunday-start week.
func SundayKey(t time.Time) string {
	return Key(WeekStart(t, time.Sunday))
}

// DaysAgo returns the number of whole days from day's midnight to now.
// It is negative for future days.
func DaysAgo(day, now time.Time) int {
	d := now.Sub(StartOfDay(day))
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
