package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	domainColumns = `id, name, icon_name, color, bg_color, created_at, updated_at`
	memberColumns = `id, name, email, domain_id, slack_channel_id, created_at, updated_at`
	statusColumns = `id, member_id, week_start, current_week, next_week, planned, created_at, updated_at`
)

// ListDomains returns every domain with its members and their weekly
// statuses. When weekStart is set only that week's statuses are attached.
func (s *Store) ListDomains(ctx context.Context, weekStart string) ([]models.WorkDomain, error) {
	domains := make([]models.WorkDomain, 0)
	if err := s.db.SelectContext(ctx, &domains,
		`SELECT `+domainColumns+` FROM work_domains ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	var members []models.TeamMember
	if err := s.db.SelectContext(ctx, &members,
		`SELECT `+memberColumns+` FROM team_members ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	var (
		statuses []models.WeeklyStatus
		err      error
	)
	if weekStart != "" {
		err = s.db.SelectContext(ctx, &statuses, s.db.Rebind(
			`SELECT `+statusColumns+` FROM weekly_statuses WHERE week_start = ? ORDER BY week_start ASC`), weekStart)
	} else {
		err = s.db.SelectContext(ctx, &statuses,
			`SELECT `+statusColumns+` FROM weekly_statuses ORDER BY week_start ASC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly statuses: %w", err)
	}

	byMember := make(map[string][]models.WeeklyStatus)
	for _, st := range statuses {
		byMember[st.MemberID] = append(byMember[st.MemberID], st)
	}

	byDomain := make(map[string][]models.TeamMember)
	for _, m := range members {
		m.WeeklyStatuses = byMember[m.ID]
		if m.WeeklyStatuses == nil {
			m.WeeklyStatuses = []models.WeeklyStatus{}
		}
		byDomain[m.DomainID] = append(byDomain[m.DomainID], m)
	}

	for i := range domains {
		domains[i].Members = byDomain[domains[i].ID]
		if domains[i].Members == nil {
			domains[i].Members = []models.TeamMember{}
		}
	}
	return domains, nil
}

// CreateDomain inserts d, generating an id when it has none.
func (s *Store) CreateDomain(ctx context.Context, d *models.WorkDomain) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	d.Members = []models.TeamMember{}

	_, err := s.db.NamedExecContext(ctx, `INSERT INTO work_domains (`+domainColumns+`)
		VALUES (:id, :name, :icon_name, :color, :bg_color, :created_at, :updated_at)`, d)
	if err != nil {
		return fmt.Errorf("failed to create domain: %w", err)
	}
	return nil
}

// CreateMember inserts m. The referenced domain must exist.
func (s *Store) CreateMember(ctx context.Context, m *models.TeamMember) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	m.WeeklyStatuses = []models.WeeklyStatus{}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM work_domains WHERE id = ?`), m.DomainID); err != nil {
			return fmt.Errorf("failed to check domain: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("domain %s: %w", m.DomainID, ErrNotFound)
		}

		_, err := tx.NamedExecContext(ctx, `INSERT INTO team_members (`+memberColumns+`)
			VALUES (:id, :name, :email, :domain_id, :slack_channel_id, :created_at, :updated_at)`, m)
		if err != nil {
			return fmt.Errorf("failed to create team member: %w", err)
		}
		return nil
	})
}

// GetMember returns one team member without statuses.
func (s *Store) GetMember(ctx context.Context, id string) (*models.TeamMember, error) {
	return getMember(ctx, s.db, id)
}

func getMember(ctx context.Context, q sqlx.ExtContext, id string) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := sqlx.GetContext(ctx, q, &m, q.Rebind(`SELECT `+memberColumns+` FROM team_members WHERE id = ?`), id); err != nil {
		return nil, notFound(err, "team member", id)
	}
	return &m, nil
}

// UpdateMember changes a member's contact details.
func (s *Store) UpdateMember(ctx context.Context, id string, patch *models.MemberPatch) (*models.TeamMember, error) {
	var updated *models.TeamMember
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		m, err := getMember(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(m)
		m.UpdatedAt = time.Now().UTC()

		_, err = tx.NamedExecContext(ctx, `UPDATE team_members SET
			name = :name, email = :email, slack_channel_id = :slack_channel_id, updated_at = :updated_at
			WHERE id = :id`, m)
		if err != nil {
			return fmt.Errorf("failed to update team member: %w", err)
		}
		updated = m
		return nil
	})
	return updated, err
}

// DeleteMember removes a member and all of their weekly statuses together.
func (s *Store) DeleteMember(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getMember(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM weekly_statuses WHERE member_id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete weekly statuses: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM team_members WHERE id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete team member: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			s.log.Debug("team member deleted", zap.String("member", id), zap.Int64("statuses", n))
		}
		return nil
	})
}

// SaveWeeklyStatus finds or creates the status of (memberID, weekStart) and
// applies patch to it.
func (s *Store) SaveWeeklyStatus(ctx context.Context, memberID, weekStart string, patch *models.StatusPatch) (*models.WeeklyStatus, error) {
	var saved *models.WeeklyStatus
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getMember(ctx, tx, memberID); err != nil {
			return err
		}

		now := time.Now().UTC()
		var st models.WeeklyStatus
		err := tx.GetContext(ctx, &st, tx.Rebind(
			`SELECT `+statusColumns+` FROM weekly_statuses WHERE member_id = ? AND week_start = ?`), memberID, weekStart)

		switch {
		case isNoRows(err):
			st = models.WeeklyStatus{
				ID:        uuid.NewString(),
				MemberID:  memberID,
				WeekStart: weekStart,
				CreatedAt: now,
				UpdatedAt: now,
			}
			patch.Apply(&st)
			_, err = tx.NamedExecContext(ctx, `INSERT INTO weekly_statuses (`+statusColumns+`)
				VALUES (:id, :member_id, :week_start, :current_week, :next_week, :planned, :created_at, :updated_at)`, &st)
			if err != nil {
				return fmt.Errorf("failed to create weekly status: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to get weekly status: %w", err)
		default:
			patch.Apply(&st)
			st.UpdatedAt = now
			_, err = tx.NamedExecContext(ctx, `UPDATE weekly_statuses SET
				current_week = :current_week, next_week = :next_week, planned = :planned, updated_at = :updated_at
				WHERE id = :id`, &st)
			if err != nil {
				return fmt.Errorf("failed to update weekly status: %w", err)
			}
		}

		saved = &st
		return nil
	})
	return saved, err
}

// ListStatusesBetween returns statuses whose week starts in [from, to].
func (s *Store) ListStatusesBetween(ctx context.Context, from, to string) ([]models.WeeklyStatus, error) {
	statuses := make([]models.WeeklyStatus, 0)
	err := s.db.SelectContext(ctx, &statuses, s.db.Rebind(
		`SELECT `+statusColumns+` FROM weekly_statuses WHERE week_start >= ? AND week_start <= ? ORDER BY week_start ASC`), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly statuses: %w", err)
	}
	return statuses, nil
}
