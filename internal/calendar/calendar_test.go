package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date   string
		monday string
		sunday string
	}{
		{"2024-03-06", "2024-03-04", "2024-03-03"}, // Wednesday
		{"2024-03-04", "2024-03-04", "2024-03-03"}, // Monday
		{"2024-03-03", "2024-02-26", "2024-03-03"}, // Sunday
		{"2024-01-01", "2024-01-01", "2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := day(t, tt.date).Add(15 * time.Hour)
			assert.Equal(t, tt.monday, MondayKey(d))
			assert.Equal(t, tt.sunday, SundayKey(d))
		})
	}
}

func TestWeekRange(t *testing.T) {
	start, end := WeekRange(day(t, "2024-03-06"), time.Monday)
	assert.Equal(t, "2024-03-04", Key(start))
	assert.Equal(t, "2024-03-10", Key(end))
}

func TestStartOfMonth(t *testing.T) {
	assert.Equal(t, "2024-02-01", Key(StartOfMonth(day(t, "2024-02-29"))))
}

func TestDaysAgo(t *testing.T) {
	now := day(t, "2024-03-10").Add(9 * time.Hour)
	assert.Equal(t, 0, DaysAgo(day(t, "2024-03-10"), now))
	assert.Equal(t, 1, DaysAgo(day(t, "2024-03-09"), now))
	assert.Equal(t, 7, DaysAgo(day(t, "2024-03-03"), now))
	assert.Equal(t, -1, DaysAgo(day(t, "2024-03-11"), now))
}

func TestQuarter(t *testing.T) {
	q := QuarterOf(day(t, "2024-05-15"))
	assert.Equal(t, Quarter{Year: 2024, Q: 2}, q)
	assert.Equal(t, "2024-Q2", q.String())
	assert.Equal(t, "2024-04-01", Key(q.Start(time.Local)))
	assert.Equal(t, "2024-06-30", Key(q.End(time.Local)))

	weeks := q.Weeks(time.Local)
	require.NotEmpty(t, weeks)
	assert.Equal(t, "2024-04-01", Key(weeks[0]))
	assert.Equal(t, "2024-06-24", Key(weeks[len(weeks)-1]))
	assert.Len(t, weeks, 13)

	q1 := QuarterOf(day(t, "2024-01-10")).Weeks(time.Local)
	assert.Equal(t, "2024-01-01", Key(q1[0]))
	q4 := QuarterOf(day(t, "2023-10-10")).Weeks(time.Local)
	assert.Equal(t, "2023-09-25", Key(q4[0]))
}
