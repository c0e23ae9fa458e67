// Package report renders the health log as markdown, HTML and XLSX, and
// mails it.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/insights"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// DateRange describes the span of entries (newest first) as
// "oldest to newest", or "No data".
func DateRange(entries []models.HealthEntry) string {
	if len(entries) == 0 {
		return "No data"
	}
	return fmt.Sprintf("%s to %s", entries[len(entries)-1].Date, entries[0].Date)
}

// Markdown builds the health log report. Entries must be newest first.
func Markdown(entries []models.HealthEntry, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Health Log Report\n\n")
	fmt.Fprintf(&b, "Generated %s.\n\n", now.Format("January 2, 2006"))
	fmt.Fprintf(&b, "- **Total Entries:** %d\n", len(entries))
	fmt.Fprintf(&b, "- **Date Range:** %s\n\n", DateRange(entries))

	avg := insights.Averages(entries, now)
	b.WriteString("## Blood Pressure Averages\n\n")
	b.WriteString("| Period | Average |\n|---|---|\n")
	for _, row := range []struct {
		name string
		avg  *models.BPAverage
	}{{"Today", avg.Daily}, {"This week", avg.Weekly}, {"This month", avg.Monthly}} {
		fmt.Fprintf(&b, "| %s | %s |\n", row.name, formatAverage(row.avg))
	}
	b.WriteString("\n")

	if in := insights.Compute(entries); in != nil {
		b.WriteString("## Insights\n\n")
		weight := in.WeightTrend
		if in.WeightChangeAbs > 0 {
			weight += fmt.Sprintf(" %.1fkg", in.WeightChangeAbs)
		}
		fmt.Fprintf(&b, "- **Weight:** %s (%+.2f kg/week)\n", weight, in.WeightSlopePerWeek)
		fmt.Fprintf(&b, "- **BP readings:** %d, %d%% healthy, %d high\n", in.TotalBPReadings, in.BPHealthPercentage, in.HighBPCount)
		fmt.Fprintf(&b, "- **Workouts:** %d sessions (strength %d, cardio %d, skill %d)\n",
			in.TotalWorkouts, in.StrengthCount, in.CardioCount, in.SkillCount)
		fmt.Fprintf(&b, "- **Consistency:** %d%%\n\n", in.ConsistencyPercentage)
	}

	if len(entries) > 0 {
		b.WriteString("## Entries\n\n")
		b.WriteString("| Date | Weight | AM (R / L) | PM (R / L) | Workout |\n|---|---|---|---|---|\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				e.Date,
				formatWeight(e.Weight),
				session(e.BPAMRight, e.BPAMLeft, e.BPAMTime),
				session(e.BPPMRight, e.BPPMLeft, e.BPPMTime),
				cell(e.Workout))
		}
	}

	return b.String()
}

// HTML renders markdown to an HTML fragment.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML([]byte(md), p, r)
}

func formatAverage(a *models.BPAverage) string {
	if a == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", a.Systolic, a.Diastolic)
}

func formatWeight(w *float64) string {
	if w == nil {
		return "-"
	}
	return strconv.FormatFloat(*w, 'f', -1, 64) + " kg"
}

func session(right, left, at *string) string {
	if right == nil && left == nil {
		return "-"
	}
	s := cell(right) + " / " + cell(left)
	if at != nil {
		s += " @ " + *at
	}
	return s
}

func cell(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return strings.ReplaceAll(*p, "|", "\\|")
}
