package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DuckDB checks unique and foreign-key constraints eagerly inside a
// transaction, so its schema carries primary keys and the status uniqueness
// only. Referential checks are done by the repositories.
var duckdbSchema = []string{
	`CREATE TABLE IF NOT EXISTS health_entries (
		id          VARCHAR PRIMARY KEY,
		date        VARCHAR NOT NULL,
		weight      DOUBLE,
		bp_am_right VARCHAR,
		bp_am_left  VARCHAR,
		bp_am_time  VARCHAR,
		bp_am_notes VARCHAR,
		bp_pm_right VARCHAR,
		bp_pm_left  VARCHAR,
		bp_pm_time  VARCHAR,
		bp_pm_notes VARCHAR,
		workout     VARCHAR,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS work_domains (
		id         VARCHAR PRIMARY KEY,
		name       VARCHAR NOT NULL,
		icon_name  VARCHAR NOT NULL,
		color      VARCHAR NOT NULL,
		bg_color   VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id               VARCHAR PRIMARY KEY,
		name             VARCHAR NOT NULL,
		email            VARCHAR NOT NULL,
		domain_id        VARCHAR NOT NULL,
		slack_channel_id VARCHAR,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_statuses (
		id           VARCHAR PRIMARY KEY,
		member_id    VARCHAR NOT NULL,
		week_start   VARCHAR NOT NULL,
		current_week VARCHAR NOT NULL DEFAULT '',
		next_week    VARCHAR NOT NULL DEFAULT '',
		planned      VARCHAR,
		created_at   TIMESTAMP NOT NULL,
		updated_at   TIMESTAMP NOT NULL,
		UNIQUE (member_id, week_start)
	)`,
	`CREATE TABLE IF NOT EXISTS my_tasks (
		id         VARCHAR PRIMARY KEY,
		title      VARCHAR NOT NULL,
		completed  BOOLEAN NOT NULL DEFAULT false,
		week_start VARCHAR NOT NULL,
		deadline   VARCHAR,
		task_type  VARCHAR NOT NULL DEFAULT 'work',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS health_entries (
		id          VARCHAR(255) PRIMARY KEY,
		date        VARCHAR(10) NOT NULL,
		weight      DOUBLE PRECISION,
		bp_am_right VARCHAR(255),
		bp_am_left  VARCHAR(255),
		bp_am_time  VARCHAR(5),
		bp_am_notes TEXT,
		bp_pm_right VARCHAR(255),
		bp_pm_left  VARCHAR(255),
		bp_pm_time  VARCHAR(5),
		bp_pm_notes TEXT,
		workout     VARCHAR(255),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_health_entries_date ON health_entries (date)`,
	`CREATE TABLE IF NOT EXISTS work_domains (
		id         VARCHAR(255) PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		icon_name  VARCHAR(100) NOT NULL,
		color      VARCHAR(50) NOT NULL,
		bg_color   VARCHAR(50) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id               VARCHAR(255) PRIMARY KEY,
		name             VARCHAR(255) NOT NULL,
		email            VARCHAR(255) NOT NULL,
		domain_id        VARCHAR(255) NOT NULL REFERENCES work_domains (id) ON DELETE CASCADE,
		slack_channel_id VARCHAR(255),
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_statuses (
		id           VARCHAR(255) PRIMARY KEY,
		member_id    VARCHAR(255) NOT NULL REFERENCES team_members (id) ON DELETE CASCADE,
		week_start   VARCHAR(10) NOT NULL,
		current_week TEXT NOT NULL DEFAULT '',
		next_week    TEXT NOT NULL DEFAULT '',
		planned      TEXT,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL,
		UNIQUE (member_id, week_start)
	)`,
	`CREATE TABLE IF NOT EXISTS my_tasks (
		id         VARCHAR(255) PRIMARY KEY,
		title      TEXT NOT NULL,
		completed  BOOLEAN NOT NULL DEFAULT false,
		week_start VARCHAR(10) NOT NULL,
		deadline   VARCHAR(10),
		task_type  VARCHAR(50) NOT NULL DEFAULT 'work',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_my_tasks_week ON my_tasks (week_start, task_type)`,
}

// Migrate creates any missing tables. It is safe to run on every start.
func (s *Store) Migrate(ctx context.Context) error {
	schema := duckdbSchema
	if s.driver == DriverPostgres {
		schema = postgresSchema
	}

	for i, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}

	s.log.Debug("migrations applied", zap.Int("statements", len(schema)))
	return nil
}
