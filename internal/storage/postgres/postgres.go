// Package postgres stores jobs, applications and saved jobs in PostgreSQL
// through database/sql and the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/lib/pq"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/repository"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

var _ repository.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Config holds connection and pool settings
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingAttempts    uint
	PingDelay       time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 10
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
	if c.PingAttempts == 0 {
		c.PingAttempts = 5
	}
	if c.PingDelay <= 0 {
		c.PingDelay = time.Second
	}
	return c
}

// Store implements repository.Store on a *sql.DB
type Store struct {
	db     *sql.DB
	logger *logging.Logger
}

// Open connects to PostgreSQL and waits until the server answers a ping
func Open(ctx context.Context, cfg Config, logger *logging.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres: DSN is required")
	}
	cfg = cfg.withDefaults()
	logger = logging.OrNop(logger).Named("postgres")

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	err = retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(cfg.PingAttempts),
		retry.Delay(cfg.PingDelay),
		retry.DelayType(retry.FixedDelay),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Warn("ping failed", "attempt", attempt+1, "error", err)
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	logger.Info("connected", "max_open_conns", cfg.MaxOpenConns)
	return &Store{db: db, logger: logger}, nil
}

// NewWithDB wraps an existing handle, mainly for tests
func NewWithDB(db *sql.DB, logger *logging.Logger) *Store {
	return &Store{db: db, logger: logging.OrNop(logger).Named("postgres")}
}

// DB exposes the underlying handle
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// withTx runs fn inside a transaction and commits when fn returns nil
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	committed = true
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func notFound(kind string, id fmt.Stringer) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}

// expectOne maps a zero-row write onto ErrNotFound
func expectOne(res sql.Result, kind string, id fmt.Stringer) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: rows affected: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
