package insights

import (
	"fmt"
	"strconv"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/models"
)

// DashboardInput is everything the home page aggregates. Entries are
// newest first.
type DashboardInput struct {
	Entries      []models.HealthEntry
	Domains      []models.WorkDomain
	WorkTasks    []models.Task
	PrivateTasks []models.Task
	Now          time.Time
}

// RelativeLabel names a date relative to now: Today, Yesterday, "N days
// ago" within a week, otherwise "Jan 2".
func RelativeLabel(date string, now time.Time) string {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	switch n := calendar.DaysAgo(d, now); {
	case n == 0:
		return "Today"
	case n == 1:
		return "Yesterday"
	case n > 1 && n <= 7:
		return fmt.Sprintf("%d days ago", n)
	}
	return d.Format("Jan 2")
}

func findByDate(entries []models.HealthEntry, key string) *models.HealthEntry {
	for i := range entries {
		if entries[i].Date == key {
			return &entries[i]
		}
	}
	return nil
}

// BuildDashboard assembles the home page.
func BuildDashboard(in DashboardInput) models.Dashboard {
	now := in.Now
	todayKey := calendar.Key(now)
	yesterdayKey := calendar.Key(now.AddDate(0, 0, -1))
	today := findByDate(in.Entries, todayKey)
	yesterday := findByDate(in.Entries, yesterdayKey)

	d := models.Dashboard{
		WeekStart:     calendar.SundayKey(now),
		WorkTasks:     in.WorkTasks,
		PrivateTasks:  in.PrivateTasks,
		HealthEntries: len(in.Entries),
		BPAverages:    DayAverages(in.Entries, now),
	}
	if d.WorkTasks == nil {
		d.WorkTasks = []models.Task{}
	}
	if d.PrivateTasks == nil {
		d.PrivateTasks = []models.Task{}
	}

	// Workouts only count when logged today or yesterday.
	switch {
	case today != nil && today.Workout != nil:
		d.RecentWorkout = &models.RecentItem{Date: today.Date, Label: "Today", Value: *today.Workout}
	case yesterday != nil && yesterday.Workout != nil:
		d.RecentWorkout = &models.RecentItem{Date: yesterday.Date, Label: "Yesterday", Value: *yesterday.Workout}
	}

	switch {
	case today != nil && today.Weight != nil:
		d.RecentWeight = weightItem(today, "Today")
	case yesterday != nil && yesterday.Weight != nil:
		d.RecentWeight = weightItem(yesterday, "Yesterday")
	case len(in.Entries) > 0 && in.Entries[0].Weight != nil:
		d.RecentWeight = weightItem(&in.Entries[0], RelativeLabel(in.Entries[0].Date, now))
	}

	d.RecentBP = recentBP(in.Entries, today, yesterday, now)

	d.Work = workCoverage(in.Domains, calendar.MondayKey(now))

	for _, list := range [][]models.Task{d.WorkTasks, d.PrivateTasks} {
		for _, t := range list {
			d.TotalTasks++
			if !t.Completed {
				d.OpenTasks++
			}
		}
	}

	return d
}

func weightItem(e *models.HealthEntry, label string) *models.RecentItem {
	return &models.RecentItem{
		Date:  e.Date,
		Label: label,
		Value: strconv.FormatFloat(*e.Weight, 'f', -1, 64),
	}
}

func recentBP(entries []models.HealthEntry, today, yesterday *models.HealthEntry, now time.Time) *models.RecentItem {
	item := func(e *models.HealthEntry, label string) *models.RecentItem {
		r, ok := DayReading(e)
		if !ok {
			return nil
		}
		return &models.RecentItem{Date: e.Date, Label: label, Value: fmt.Sprintf("%d/%d", r.Systolic, r.Diastolic)}
	}

	if today != nil {
		if it := item(today, "Today"); it != nil {
			return it
		}
	}
	if yesterday != nil {
		if it := item(yesterday, "Yesterday"); it != nil {
			return it
		}
	}
	for i := range entries {
		if it := item(&entries[i], RelativeLabel(entries[i].Date, now)); it != nil {
			return it
		}
	}
	return nil
}

func workCoverage(domains []models.WorkDomain, weekStart string) models.WorkCoverage {
	c := models.WorkCoverage{WeekStart: weekStart, Domains: len(domains)}
	for _, d := range domains {
		for _, m := range d.Members {
			c.Members++
			for _, s := range m.WeeklyStatuses {
				if s.WeekStart == weekStart && (s.CurrentWeek != "" || s.NextWeek != "") {
					c.MembersUpdated++
					break
				}
			}
		}
	}
	return c
}
