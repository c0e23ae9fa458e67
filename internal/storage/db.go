// Package storage persists health entries, tasks and work statuses in a SQL
// database (DuckDB by default, Postgres optionally) and archives uploaded
// files on disk.
package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/amimagid/ami-super-app/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

func init() {
	sqlx.BindDriver(DriverDuckDB, sqlx.QUESTION)
}

// Store is the relational store shared by all repositories.
type Store struct {
	db     *sqlx.DB
	driver string
	log    *zap.Logger
}

// Open connects to the configured database and runs migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig, tuning config.AdvancedConfig, log *zap.Logger) (*Store, error) {
	log = log.Named("storage")

	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Driver {
	case DriverDuckDB, "":
		db, err = openDuckDB(cfg.Path, tuning)
	case DriverPostgres:
		db, err = openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, driver: db.DriverName(), log: log}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("database ready", zap.String("driver", s.driver))
	return s, nil
}

// OpenDuckDB opens (or creates) a DuckDB file and migrates it. An empty path
// gives an in-memory database.
func OpenDuckDB(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	return Open(ctx, config.DatabaseConfig{Driver: DriverDuckDB, Path: path}, config.AdvancedConfig{}, log)
}

func openDuckDB(path string, tuning config.AdvancedConfig) (*sqlx.DB, error) {
	pragmas := []string{"PRAGMA enable_progress_bar=false"}
	if tuning.DuckDBMemoryLimit != "" {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA memory_limit='%s'", tuning.DuckDBMemoryLimit))
	}
	if tuning.DuckDBThreads > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA threads=%d", tuning.DuckDBThreads))
	}

	connector, err := duckdb.NewConnector(path, func(execer driver.ExecerContext) error {
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return fmt.Errorf("%s: %w", pragma, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	return sqlx.NewDb(sql.OpenDB(connector), DriverDuckDB), nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := sqlx.ConnectContext(ctx, DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

// Driver returns the SQL driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func checkAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
