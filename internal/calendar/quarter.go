package calendar

import (
	"fmt"
	"time"
)

// Quarter is a calendar quarter, Q in 1..4.
type Quarter struct {
	Year int
	Q    int
}

// QuarterOf returns the quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

func (q Quarter) String() string {
	return fmt.Sprintf("%d-Q%d", q.Year, q.Q)
}

// Start returns midnight of the quarter's first day.
func (q Quarter) Start(loc *time.Location) time.Time {
	return time.Date(q.Year, time.Month((q.Q-1)*3+1), 1, 0, 0, 0, 0, loc)
}

// End returns midnight of the quarter's last day.
func (q Quarter) End(loc *time.Location) time.Time {
	return q.Start(loc).AddDate(0, 3, -1)
}

// Weeks returns the Monday of every week that overlaps the quarter, in order.
// The first Monday may fall in the previous quarter.
func (q Quarter) Weeks(loc *time.Location) []time.Time {
	end := q.End(loc)
	var weeks []time.Time
	for w := WeekStart(q.Start(loc), time.Monday); !w.After(end); w = w.AddDate(0, 0, 7) {
		weeks = append(weeks, w)
	}
	return weeks
}
