package insights

import (
	"math"
	"strings"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

var cardioKeywords = []string{"run", "jog", "elliptical", "hiit"}

// Compute summarizes entries, which must be ordered newest first. It returns
// nil for an empty log.
func Compute(entries []models.HealthEntry) *models.HealthInsights {
	if len(entries) == 0 {
		return nil
	}
	in := &models.HealthInsights{}

	// Weight: change is newest minus oldest.
	var weights stats.Float64Data
	for _, e := range entries {
		if e.Weight != nil {
			weights = append(weights, *e.Weight)
		}
	}
	if len(weights) > 1 {
		in.WeightChange = weights[0] - weights[len(weights)-1]
	}
	switch {
	case in.WeightChange > 0:
		in.WeightTrend = "Gained"
	case in.WeightChange < 0:
		in.WeightTrend = "Lost"
	default:
		in.WeightTrend = "Stable"
	}
	in.WeightChangeAbs = math.Abs(in.WeightChange)
	if mean, err := stats.Mean(weights); err == nil {
		in.AverageWeight = math.Round(mean*10) / 10
	}
	in.WeightSlopePerWeek = weeklySlope(entries)

	// Blood pressure.
	for i := range entries {
		for _, r := range Readings(&entries[i]) {
			in.TotalBPReadings++
			if r.High() {
				in.HighBPCount++
			}
		}
	}
	if in.TotalBPReadings > 0 {
		in.BPHealthPercentage = round(float64(in.TotalBPReadings-in.HighBPCount) / float64(in.TotalBPReadings) * 100)
	}

	// Workouts.
	for _, e := range entries {
		if e.Workout == nil || *e.Workout == "" {
			continue
		}
		in.TotalWorkouts++
		w := strings.ToLower(*e.Workout)
		if strings.Contains(w, "strength") {
			in.StrengthCount++
		}
		for _, k := range cardioKeywords {
			if strings.Contains(w, k) {
				in.CardioCount++
				break
			}
		}
		if strings.Contains(w, "skill") {
			in.SkillCount++
		}
	}

	withData := 0
	for i := range entries {
		if entries[i].HasMeasurements() {
			withData++
		}
	}
	in.ConsistencyPercentage = round(float64(withData) / float64(len(entries)) * 100)

	return in
}

// weeklySlope fits weight against time by least squares and returns kg per
// week. Fewer than two distinct days give 0.
func weeklySlope(entries []models.HealthEntry) float64 {
	var xs, ys []float64
	var origin float64
	first := true
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Weight == nil {
			continue
		}
		d, err := calendar.ParseDate(e.Date)
		if err != nil {
			continue
		}
		days := float64(d.Unix()) / 86400
		if first {
			origin, first = days, false
		}
		xs = append(xs, days-origin)
		ys = append(ys, *e.Weight)
	}
	if len(xs) < 2 {
		return 0
	}
	if v, err := stats.Variance(xs); err != nil || v == 0 {
		return 0
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return math.Round(beta*7*100) / 100
}
