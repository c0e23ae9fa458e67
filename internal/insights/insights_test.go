package insights

import (
	"testing"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	// Newest first.
	entries := []models.HealthEntry{
		{Date: "2024-01-15", Weight: fp(82), BPAMRight: sp("145/85"), Workout: sp("Strength A")},
		{Date: "2024-01-08", Weight: fp(81), BPAMRight: sp("120/80"), BPPMLeft: sp("118/92"), Workout: sp("Easy run")},
		{Date: "2024-01-05"},
		{Date: "2024-01-01", Weight: fp(80), Workout: sp("HIIT + skill work")},
	}

	in := Compute(entries)
	require.NotNil(t, in)

	assert.Equal(t, 2.0, in.WeightChange)
	assert.Equal(t, "Gained", in.WeightTrend)
	assert.Equal(t, 2.0, in.WeightChangeAbs)
	assert.Equal(t, 81.0, in.AverageWeight)
	// 2 kg over 14 days.
	assert.InDelta(t, 1.0, in.WeightSlopePerWeek, 0.01)

	assert.Equal(t, 3, in.TotalBPReadings)
	assert.Equal(t, 2, in.HighBPCount)
	assert.Equal(t, 33, in.BPHealthPercentage)

	assert.Equal(t, 3, in.TotalWorkouts)
	assert.Equal(t, 1, in.StrengthCount)
	assert.Equal(t, 2, in.CardioCount)
	assert.Equal(t, 1, in.SkillCount)

	assert.Equal(t, 75, in.ConsistencyPercentage)
}

func TestCompute_Trends(t *testing.T) {
	lost := Compute([]models.HealthEntry{{Date: "2024-01-02", Weight: fp(79.5)}, {Date: "2024-01-01", Weight: fp(80)}})
	assert.Equal(t, "Lost", lost.WeightTrend)
	assert.Equal(t, 0.5, lost.WeightChangeAbs)

	single := Compute([]models.HealthEntry{{Date: "2024-01-01", Weight: fp(80)}})
	assert.Equal(t, "Stable", single.WeightTrend)
	assert.Equal(t, 0.0, single.WeightSlopePerWeek)

	assert.Nil(t, Compute(nil))
}

func TestFilterAndAverages(t *testing.T) {
	now, err := calendar.ParseDate("2024-03-06") // Wednesday
	require.NoError(t, err)
	now = now.Add(10 * time.Hour)

	entries := []models.HealthEntry{
		{Date: "2024-03-06", BPAMRight: sp("120/80")},
		{Date: "2024-03-04", BPAMRight: sp("130/90")},
		{Date: "2024-03-01", BPAMRight: sp("140/100")},
		{Date: "2024-02-20", BPAMRight: sp("160/100")},
	}

	assert.Len(t, Filter(entries, RangeDay, now), 1)
	assert.Len(t, Filter(entries, RangeWeek, now), 2)
	assert.Len(t, Filter(entries, RangeMonth, now), 3)
	assert.Len(t, Filter(entries, RangeAll, now), 4)

	avg := Averages(entries, now)
	assert.Equal(t, &models.BPAverage{Systolic: 120, Diastolic: 80}, avg.Daily)
	assert.Equal(t, &models.BPAverage{Systolic: 125, Diastolic: 85}, avg.Weekly)
	assert.Equal(t, &models.BPAverage{Systolic: 130, Diastolic: 90}, avg.Monthly)

	_, err = ParseRange("year")
	assert.Error(t, err)
	r, err := ParseRange("")
	require.NoError(t, err)
	assert.Equal(t, RangeAll, r)
}
