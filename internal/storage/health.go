package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const healthColumns = `id, date, weight, bp_am_right, bp_am_left, bp_am_time, bp_am_notes,
	bp_pm_right, bp_pm_left, bp_pm_time, bp_pm_notes, workout, created_at, updated_at`

const insertHealthEntry = `INSERT INTO health_entries (` + healthColumns + `) VALUES (
	:id, :date, :weight, :bp_am_right, :bp_am_left, :bp_am_time, :bp_am_notes,
	:bp_pm_right, :bp_pm_left, :bp_pm_time, :bp_pm_notes, :workout, :created_at, :updated_at)`

const updateHealthEntry = `UPDATE health_entries SET
	date = :date, weight = :weight,
	bp_am_right = :bp_am_right, bp_am_left = :bp_am_left, bp_am_time = :bp_am_time, bp_am_notes = :bp_am_notes,
	bp_pm_right = :bp_pm_right, bp_pm_left = :bp_pm_left, bp_pm_time = :bp_pm_time, bp_pm_notes = :bp_pm_notes,
	workout = :workout, updated_at = :updated_at
	WHERE id = :id`

// HealthFilter narrows a listing to an inclusive date range. Empty bounds
// are open.
type HealthFilter struct {
	From string
	To   string
}

// ImportOptions controls how a batch of parsed entries is persisted.
type ImportOptions struct {
	Policy models.DuplicatePolicy
	// Replace deletes every existing entry before inserting.
	Replace bool
}

// ListHealthEntries returns entries newest first.
func (s *Store) ListHealthEntries(ctx context.Context, f HealthFilter) ([]models.HealthEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.From != "" {
		where = append(where, "date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "date <= ?")
		args = append(args, f.To)
	}

	query := `SELECT ` + healthColumns + ` FROM health_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	entries := make([]models.HealthEntry, 0)
	if err := s.db.SelectContext(ctx, &entries, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list health entries: %w", err)
	}
	return entries, nil
}

// GetHealthEntry returns one entry by id.
func (s *Store) GetHealthEntry(ctx context.Context, id string) (*models.HealthEntry, error) {
	return getHealthEntry(ctx, s.db, id)
}

func getHealthEntry(ctx context.Context, q sqlx.ExtContext, id string) (*models.HealthEntry, error) {
	var e models.HealthEntry
	query := q.Rebind(`SELECT ` + healthColumns + ` FROM health_entries WHERE id = ?`)
	if err := sqlx.GetContext(ctx, q, &e, query, id); err != nil {
		return nil, notFound(err, "health entry", id)
	}
	return &e, nil
}

// CreateHealthEntry inserts e, generating an id when it has none.
func (s *Store) CreateHealthEntry(ctx context.Context, e *models.HealthEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now

	if _, err := s.db.NamedExecContext(ctx, insertHealthEntry, e); err != nil {
		return fmt.Errorf("failed to create health entry: %w", err)
	}
	return nil
}

// UpdateHealthEntry applies a partial update and returns the stored result.
func (s *Store) UpdateHealthEntry(ctx context.Context, id string, patch *models.HealthEntryPatch) (*models.HealthEntry, error) {
	var updated *models.HealthEntry
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		e, err := getHealthEntry(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(e)
		e.UpdatedAt = time.Now().UTC()

		if _, err := tx.NamedExecContext(ctx, updateHealthEntry, e); err != nil {
			return fmt.Errorf("failed to update health entry: %w", err)
		}
		updated = e
		return nil
	})
	return updated, err
}

// DeleteHealthEntry removes one entry.
func (s *Store) DeleteHealthEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM health_entries WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete health entry: %w", err)
	}
	return checkAffected(res, "health entry", id)
}

// ImportHealthEntries persists a parsed batch in one transaction: either
// every row is stored or none is.
func (s *Store) ImportHealthEntries(ctx context.Context, entries []models.HealthEntry, opts ImportOptions) (models.ImportStats, error) {
	var stats models.ImportStats
	if opts.Policy == "" {
		opts.Policy = models.DuplicateUpsert
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		stats = models.ImportStats{}

		if opts.Replace {
			res, err := tx.ExecContext(ctx, `DELETE FROM health_entries`)
			if err != nil {
				return fmt.Errorf("failed to clear health entries: %w", err)
			}
			if n, err := res.RowsAffected(); err == nil {
				stats.Removed = int(n)
			}
		}

		findByDate := tx.Rebind(`SELECT id, created_at FROM health_entries WHERE date = ? ORDER BY created_at DESC LIMIT 1`)
		now := time.Now().UTC()

		for i := range entries {
			e := entries[i]
			if e.ID == "" {
				e.ID = uuid.NewString()
			}
			e.UpdatedAt = now

			if opts.Policy != models.DuplicateAppend {
				var existing struct {
					ID        string    `db:"id"`
					CreatedAt time.Time `db:"created_at"`
				}
				err := tx.GetContext(ctx, &existing, findByDate, e.Date)
				switch {
				case err == nil && opts.Policy == models.DuplicateSkip:
					stats.Skipped++
					continue
				case err == nil:
					e.ID, e.CreatedAt = existing.ID, existing.CreatedAt
					if _, err := tx.NamedExecContext(ctx, updateHealthEntry, &e); err != nil {
						return fmt.Errorf("row %d (%s): update: %w", i+1, e.Date, err)
					}
					stats.Updated++
					continue
				case !isNoRows(err):
					return fmt.Errorf("row %d (%s): lookup: %w", i+1, e.Date, err)
				}
			}

			e.CreatedAt = now
			if _, err := tx.NamedExecContext(ctx, insertHealthEntry, &e); err != nil {
				return fmt.Errorf("row %d (%s): insert: %w", i+1, e.Date, err)
			}
			stats.Inserted++
		}
		return nil
	})
	if err != nil {
		return models.ImportStats{}, err
	}

	s.log.Info("health entries imported",
		zap.String("policy", string(opts.Policy)),
		zap.Int("inserted", stats.Inserted),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("removed", stats.Removed))
	return stats, nil
}

// CountHealthEntries returns the number of stored entries.
func (s *Store) CountHealthEntries(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM health_entries`); err != nil {
		return 0, fmt.Errorf("failed to count health entries: %w", err)
	}
	return n, nil
}
