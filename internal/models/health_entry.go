package models

import "time"

// HealthEntry is one day's recorded measurements: weight, a morning and an
// evening blood-pressure reading taken on both arms, and a workout note.
type HealthEntry struct {
	ID        string    `json:"id" db:"id"`
	Date      string    `json:"date" db:"date"` // YYYY-MM-DD
	Weight    *float64  `json:"weight" db:"weight"`
	BPAMRight *string   `json:"bpAMRight" db:"bp_am_right"`
	BPAMLeft  *string   `json:"bpAMLeft" db:"bp_am_left"`
	BPAMTime  *string   `json:"bpAMTime" db:"bp_am_time"`
	BPAMNotes *string   `json:"bpAMNotes" db:"bp_am_notes"`
	BPPMRight *string   `json:"bpPMRight" db:"bp_pm_right"`
	BPPMLeft  *string   `json:"bpPMLeft" db:"bp_pm_left"`
	BPPMTime  *string   `json:"bpPMTime" db:"bp_pm_time"`
	BPPMNotes *string   `json:"bpPMNotes" db:"bp_pm_notes"`
	Workout   *string   `json:"workout" db:"workout"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HasMeasurements reports whether the entry carries any weight, blood
// pressure reading or workout.
func (e *HealthEntry) HasMeasurements() bool {
	return e.Weight != nil || e.HasBP() || e.Workout != nil
}

// HasBP reports whether any of the four blood-pressure readings is set.
func (e *HealthEntry) HasBP() bool {
	return e.BPAMRight != nil || e.BPAMLeft != nil || e.BPPMRight != nil || e.BPPMLeft != nil
}

// HealthEntryPatch is a partial update. Fields absent from the JSON body are
// left untouched, an explicit null clears the column.
type HealthEntryPatch struct {
	Date      Optional[string]  `json:"date"`
	Weight    Optional[float64] `json:"weight"`
	BPAMRight Optional[string]  `json:"bpAMRight"`
	BPAMLeft  Optional[string]  `json:"bpAMLeft"`
	BPAMTime  Optional[string]  `json:"bpAMTime"`
	BPAMNotes Optional[string]  `json:"bpAMNotes"`
	BPPMRight Optional[string]  `json:"bpPMRight"`
	BPPMLeft  Optional[string]  `json:"bpPMLeft"`
	BPPMTime  Optional[string]  `json:"bpPMTime"`
	BPPMNotes Optional[string]  `json:"bpPMNotes"`
	Workout   Optional[string]  `json:"workout"`
}

// Apply copies every set field of the patch onto e.
func (p *HealthEntryPatch) Apply(e *HealthEntry) {
	if p.Date.Set && p.Date.Value != nil {
		e.Date = *p.Date.Value
	}
	p.Weight.ApplyTo(&e.Weight)
	p.BPAMRight.ApplyTo(&e.BPAMRight)
	p.BPAMLeft.ApplyTo(&e.BPAMLeft)
	p.BPAMTime.ApplyTo(&e.BPAMTime)
	p.BPAMNotes.ApplyTo(&e.BPAMNotes)
	p.BPPMRight.ApplyTo(&e.BPPMRight)
	p.BPPMLeft.ApplyTo(&e.BPPMLeft)
	p.BPPMTime.ApplyTo(&e.BPPMTime)
	p.BPPMNotes.ApplyTo(&e.BPPMNotes)
	p.Workout.ApplyTo(&e.Workout)
}
