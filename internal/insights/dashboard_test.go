package insights

import (
	"testing"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNow(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(date)
	require.NoError(t, err)
	return d.Add(18 * time.Hour)
}

func TestRelativeLabel(t *testing.T) {
	now := mustNow(t, "2024-03-10")
	assert.Equal(t, "Today", RelativeLabel("2024-03-10", now))
	assert.Equal(t, "Yesterday", RelativeLabel("2024-03-09", now))
	assert.Equal(t, "3 days ago", RelativeLabel("2024-03-07", now))
	assert.Equal(t, "7 days ago", RelativeLabel("2024-03-03", now))
	assert.Equal(t, "Mar 2", RelativeLabel("2024-03-02", now))
	assert.Equal(t, "bogus", RelativeLabel("bogus", now))
}

func TestBuildDashboard(t *testing.T) {
	now := mustNow(t, "2024-03-10") // Sunday

	in := DashboardInput{
		Now: now,
		Entries: []models.HealthEntry{
			{Date: "2024-03-09", Workout: sp("Run"), BPAMRight: sp("120/80")},
			{Date: "2024-03-05", Weight: fp(80)},
		},
		Domains: []models.WorkDomain{{
			ID: "d",
			Members: []models.TeamMember{
				{ID: "a", WeeklyStatuses: []models.WeeklyStatus{{WeekStart: "2024-03-04", CurrentWeek: "x"}}},
				{ID: "b", WeeklyStatuses: []models.WeeklyStatus{{WeekStart: "2024-03-04"}}},
				{ID: "c"},
			},
		}},
		WorkTasks:    []models.Task{{Title: "a"}, {Title: "b", Completed: true}},
		PrivateTasks: nil,
	}

	d := BuildDashboard(in)

	require.NotNil(t, d.RecentWorkout)
	assert.Equal(t, "Yesterday", d.RecentWorkout.Label)
	assert.Equal(t, "Run", d.RecentWorkout.Value)

	// Most recent entry has no weight, so there is no weight card.
	assert.Nil(t, d.RecentWeight)

	require.NotNil(t, d.RecentBP)
	assert.Equal(t, "Yesterday", d.RecentBP.Label)
	assert.Equal(t, "120/80", d.RecentBP.Value)

	assert.Equal(t, "2024-03-10", d.WeekStart)
	assert.Equal(t, models.WorkCoverage{WeekStart: "2024-03-04", Domains: 1, Members: 3, MembersUpdated: 1}, d.Work)
	assert.Equal(t, 2, d.TotalTasks)
	assert.Equal(t, 1, d.OpenTasks)
	assert.NotNil(t, d.PrivateTasks)
	assert.Equal(t, 2, d.HealthEntries)
}

func TestBuildDashboard_WeightFallback(t *testing.T) {
	now := mustNow(t, "2024-03-10")
	d := BuildDashboard(DashboardInput{
		Now:     now,
		Entries: []models.HealthEntry{{Date: "2024-03-06", Weight: fp(79.4), BPPMLeft: sp("119/79")}},
	})

	require.NotNil(t, d.RecentWeight)
	assert.Equal(t, "4 days ago", d.RecentWeight.Label)
	assert.Equal(t, "79.4", d.RecentWeight.Value)
	require.NotNil(t, d.RecentBP)
	assert.Equal(t, "4 days ago", d.RecentBP.Label)
	assert.Nil(t, d.RecentWorkout)
}
