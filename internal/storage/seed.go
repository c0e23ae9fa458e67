package storage

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/parser"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed seed.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in work domains and team members.
func DefaultSeed() (*models.Seed, error) {
	return parser.ParseSeedFromReader(bytes.NewReader(defaultSeed))
}

// SeedResult counts what ApplySeed created.
type SeedResult struct {
	DomainsCreated int
	MembersCreated int
}

// ApplySeed creates every seed domain and member that does not exist yet.
// Existing rows are left untouched.
func (s *Store) ApplySeed(ctx context.Context, seed *models.Seed) (SeedResult, error) {
	var res SeedResult
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res = SeedResult{}
		now := time.Now().UTC()

		for _, d := range seed.Domains {
			d.CreatedAt, d.UpdatedAt = now, now
			created, err := insertIfMissing(ctx, tx, "work_domains", d.ID,
				`INSERT INTO work_domains (`+domainColumns+`)
				VALUES (:id, :name, :icon_name, :color, :bg_color, :created_at, :updated_at)`,
				&d)
			if err != nil {
				return fmt.Errorf("seed domain %s: %w", d.ID, err)
			}
			if created {
				res.DomainsCreated++
			}
		}

		for _, m := range seed.Members {
			m.CreatedAt, m.UpdatedAt = now, now
			created, err := insertIfMissing(ctx, tx, "team_members", m.ID,
				`INSERT INTO team_members (`+memberColumns+`)
				VALUES (:id, :name, :email, :domain_id, :slack_channel_id, :created_at, :updated_at)`,
				&m)
			if err != nil {
				return fmt.Errorf("seed member %s: %w", m.ID, err)
			}
			if created {
				res.MembersCreated++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	s.log.Info("seed applied",
		zap.Int("domains_created", res.DomainsCreated),
		zap.Int("members_created", res.MembersCreated))
	return res, nil
}

func insertIfMissing(ctx context.Context, tx *sqlx.Tx, table, id, insert string, arg any) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM `+table+` WHERE id = ?`), id); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := tx.NamedExecContext(ctx, insert, arg); err != nil {
		return false, err
	}
	return true, nil
}
