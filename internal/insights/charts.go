package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/models"
)

// Arm selects which arm's readings a BP chart shows.
type Arm string

const (
	ArmRight Arm = "right"
	ArmLeft  Arm = "left"
	ArmBoth  Arm = "both"
)

// ParseArm validates s; empty means both.
func ParseArm(s string) (Arm, error) {
	switch a := Arm(strings.ToLower(s)); a {
	case "":
		return ArmBoth, nil
	case ArmRight, ArmLeft, ArmBoth:
		return a, nil
	}
	return "", fmt.Errorf("unknown arm %q (want right, left or both)", s)
}

func chartLabel(date string) string {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("Jan 02")
}

func set(sys, dia **int, p *string) bool {
	r, ok := parseField(p)
	if !ok {
		return false
	}
	*sys, *dia = &r.Systolic, &r.Diastolic
	return true
}

// BPSeries returns one point per entry in range with at least one reading
// for the selected arm, oldest first.
func BPSeries(entries []models.HealthEntry, r Range, arm Arm, now time.Time) []models.BPChartPoint {
	points := make([]models.BPChartPoint, 0)
	for _, e := range Filter(entries, r, now) {
		p := models.BPChartPoint{Label: chartLabel(e.Date), FullDate: e.Date}
		has := false
		if arm == ArmRight || arm == ArmBoth {
			has = set(&p.SystolicRightAM, &p.DiastolicRightAM, e.BPAMRight) || has
			has = set(&p.SystolicRightPM, &p.DiastolicRightPM, e.BPPMRight) || has
		}
		if arm == ArmLeft || arm == ArmBoth {
			has = set(&p.SystolicLeftAM, &p.DiastolicLeftAM, e.BPAMLeft) || has
			has = set(&p.SystolicLeftPM, &p.DiastolicLeftPM, e.BPPMLeft) || has
		}
		if has {
			points = append(points, p)
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].FullDate < points[j].FullDate })
	return points
}

// WeightSeries returns one point per entry in range with a weight, oldest
// first.
func WeightSeries(entries []models.HealthEntry, r Range, now time.Time) []models.WeightChartPoint {
	points := make([]models.WeightChartPoint, 0)
	for _, e := range Filter(entries, r, now) {
		if e.Weight == nil {
			continue
		}
		points = append(points, models.WeightChartPoint{
			Label:    chartLabel(e.Date),
			FullDate: e.Date,
			Weight:   *e.Weight,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].FullDate < points[j].FullDate })
	return points
}
