package insights

import (
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/models"
)

// QuarterGrid lays out which members reported in each Monday-start week of
// q. Members keep the order of domains and members given.
func QuarterGrid(q calendar.Quarter, domains []models.WorkDomain, statuses []models.WeeklyStatus, loc *time.Location) models.QuarterGrid {
	weeks := q.Weeks(loc)
	grid := models.QuarterGrid{
		Quarter: q.String(),
		Weeks:   make([]models.QuarterWeek, len(weeks)),
		Rows:    make([]models.QuarterRow, 0),
	}
	col := make(map[string]int, len(weeks))
	for i, w := range weeks {
		key := calendar.Key(w)
		grid.Weeks[i] = models.QuarterWeek{WeekStart: key, Label: w.Format("Jan 2")}
		col[key] = i
	}

	reported := make(map[string]map[int]bool)
	for _, s := range statuses {
		i, ok := col[s.WeekStart]
		if !ok {
			continue
		}
		if reported[s.MemberID] == nil {
			reported[s.MemberID] = make(map[int]bool)
		}
		reported[s.MemberID][i] = true
	}

	for _, d := range domains {
		for _, m := range d.Members {
			row := models.QuarterRow{
				MemberID:   m.ID,
				MemberName: m.Name,
				DomainID:   d.ID,
				Reported:   make([]bool, len(weeks)),
			}
			for i := range weeks {
				row.Reported[i] = reported[m.ID][i]
			}
			grid.Rows = append(grid.Rows, row)
		}
	}
	return grid
}
