package models

import "time"

// WorkDomain groups team members by area of responsibility.
type WorkDomain struct {
	ID        string       `json:"id" db:"id" yaml:"id"`
	Name      string       `json:"name" db:"name" yaml:"name"`
	IconName  string       `json:"iconName" db:"icon_name" yaml:"icon_name"`
	Color     string       `json:"color" db:"color" yaml:"color"`
	BgColor   string       `json:"bgColor" db:"bg_color" yaml:"bg_color"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at" yaml:"-"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at" yaml:"-"`
	Members   []TeamMember `json:"members" db:"-" yaml:"-"`
}

// TeamMember belongs to exactly one domain.
type TeamMember struct {
	ID             string         `json:"id" db:"id" yaml:"id"`
	Name           string         `json:"name" db:"name" yaml:"name"`
	Email          string         `json:"email" db:"email" yaml:"email"`
	DomainID       string         `json:"domainId" db:"domain_id" yaml:"domain_id"`
	SlackChannelID *string        `json:"slackChannelId" db:"slack_channel_id" yaml:"slack_channel_id,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at" yaml:"-"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at" yaml:"-"`
	WeeklyStatuses []WeeklyStatus `json:"weeklyStatuses" db:"-" yaml:"-"`
}

// WeeklyStatus is a member's report for one week. There is at most one per
// (member, week).
type WeeklyStatus struct {
	ID          string    `json:"id" db:"id"`
	MemberID    string    `json:"memberId" db:"member_id"`
	WeekStart   string    `json:"weekStart" db:"week_start"`
	CurrentWeek string    `json:"currentWeek" db:"current_week"`
	NextWeek    string    `json:"nextWeek" db:"next_week"`
	Planned     *string   `json:"planned" db:"planned"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// MemberPatch updates a member's contact details.
type MemberPatch struct {
	Name           Optional[string] `json:"name"`
	Email          Optional[string] `json:"email"`
	SlackChannelID Optional[string] `json:"slackChannelId"`
}

// Empty reports whether no member field was supplied.
func (p *MemberPatch) Empty() bool {
	return !p.Name.Set && !p.Email.Set && !p.SlackChannelID.Set
}

// Apply copies every set field of the patch onto m.
func (p *MemberPatch) Apply(m *TeamMember) {
	if p.Name.Set && p.Name.Value != nil {
		m.Name = *p.Name.Value
	}
	if p.Email.Set && p.Email.Value != nil {
		m.Email = *p.Email.Value
	}
	p.SlackChannelID.ApplyTo(&m.SlackChannelID)
}

// StatusPatch updates the text of a weekly status.
type StatusPatch struct {
	CurrentWeek Optional[string] `json:"currentWeek"`
	NextWeek    Optional[string] `json:"nextWeek"`
	Planned     Optional[string] `json:"planned"`
}

// Apply copies every set field of the patch onto s.
func (p *StatusPatch) Apply(s *WeeklyStatus) {
	if p.CurrentWeek.Set {
		s.CurrentWeek = deref(p.CurrentWeek.Value)
	}
	if p.NextWeek.Set {
		s.NextWeek = deref(p.NextWeek.Value)
	}
	p.Planned.ApplyTo(&s.Planned)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Seed is the default set of domains and members installed by setup-db.
type Seed struct {
	Domains []WorkDomain `yaml:"domains"`
	Members []TeamMember `yaml:"members"`
}
