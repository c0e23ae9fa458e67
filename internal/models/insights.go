package models

// BPAverage is a rounded mean blood-pressure reading.
type BPAverage struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

// BPAverages holds reading averages over today, this week and this month.
// A nil field means no readings fell in the range.
type BPAverages struct {
	Daily   *BPAverage `json:"daily"`
	Weekly  *BPAverage `json:"weekly"`
	Monthly *BPAverage `json:"monthly"`
}

// HealthInsights summarizes the whole health log.
type HealthInsights struct {
	WeightChange          float64 `json:"weightChange"`
	WeightTrend           string  `json:"weightTrend"` // Gained, Lost or Stable
	WeightChangeAbs       float64 `json:"weightChangeAbs"`
	WeightSlopePerWeek    float64 `json:"weightSlopePerWeek"`
	AverageWeight         float64 `json:"averageWeight"`
	TotalBPReadings       int     `json:"totalBPReadings"`
	HighBPCount           int     `json:"highBPCount"`
	BPHealthPercentage    int     `json:"bpHealthPercentage"`
	TotalWorkouts         int     `json:"totalWorkouts"`
	StrengthCount         int     `json:"strengthCount"`
	CardioCount           int     `json:"cardioCount"`
	SkillCount            int     `json:"skillCount"`
	ConsistencyPercentage int     `json:"consistencyPercentage"`
}

// HealthSummary is the response of the summary endpoint.
type HealthSummary struct {
	TotalEntries int             `json:"totalEntries"`
	OldestDate   string          `json:"oldestDate,omitempty"`
	NewestDate   string          `json:"newestDate,omitempty"`
	BPAverages   BPAverages      `json:"bpAverages"`
	Insights     *HealthInsights `json:"insights"`
}

// BPChartPoint is one day on the blood-pressure chart. Readings missing for
// the selected arm are nil.
type BPChartPoint struct {
	Label            string `json:"date"`
	FullDate         string `json:"fullDate"`
	SystolicRightAM  *int   `json:"systolicRightAM,omitempty"`
	DiastolicRightAM *int   `json:"diastolicRightAM,omitempty"`
	SystolicRightPM  *int   `json:"systolicRightPM,omitempty"`
	DiastolicRightPM *int   `json:"diastolicRightPM,omitempty"`
	SystolicLeftAM   *int   `json:"systolicLeftAM,omitempty"`
	DiastolicLeftAM  *int   `json:"diastolicLeftAM,omitempty"`
	SystolicLeftPM   *int   `json:"systolicLeftPM,omitempty"`
	DiastolicLeftPM  *int   `json:"diastolicLeftPM,omitempty"`
}

// WeightChartPoint is one day on the weight chart.
type WeightChartPoint struct {
	Label    string  `json:"date"`
	FullDate string  `json:"fullDate"`
	Weight   float64 `json:"weight"`
}

// RecentItem is a "latest value" card on the dashboard.
type RecentItem struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// WorkCoverage counts how many members reported a status this week.
type WorkCoverage struct {
	WeekStart      string `json:"weekStart"`
	Domains        int    `json:"domains"`
	Members        int    `json:"members"`
	MembersUpdated int    `json:"membersUpdated"`
}

// Dashboard is the home page aggregate.
type Dashboard struct {
	RecentWorkout *RecentItem  `json:"recentWorkout"`
	RecentWeight  *RecentItem  `json:"recentWeight"`
	RecentBP      *RecentItem  `json:"recentBP"`
	BPAverages    BPAverages   `json:"bpAverages"`
	WeekStart     string       `json:"weekStart"`
	Work          WorkCoverage `json:"work"`
	WorkTasks     []Task       `json:"workTasks"`
	PrivateTasks  []Task       `json:"privateTasks"`
	OpenTasks     int          `json:"openTasks"`
	TotalTasks    int          `json:"totalTasks"`
	HealthEntries int          `json:"healthEntries"`
}

// QuarterWeek is one column of the quarter grid.
type QuarterWeek struct {
	WeekStart string `json:"weekStart"`
	Label     string `json:"label"`
}

// QuarterRow marks which weeks of the quarter a member reported on.
type QuarterRow struct {
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
	DomainID   string `json:"domainId"`
	Reported   []bool `json:"reported"`
}

// QuarterGrid is the work-status overview for one calendar quarter.
type QuarterGrid struct {
	Quarter string        `json:"quarter"` // e.g. 2024-Q1
	Weeks   []QuarterWeek `json:"weeks"`
	Rows    []QuarterRow  `json:"rows"`
}
