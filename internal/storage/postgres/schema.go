package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id               UUID PRIMARY KEY,
		tenant_id        TEXT NOT NULL,
		company          TEXT NOT NULL,
		position         TEXT NOT NULL,
		location         TEXT NOT NULL DEFAULT '',
		type             TEXT NOT NULL DEFAULT '',
		experience       TEXT NOT NULL DEFAULT '',
		industry         TEXT NOT NULL DEFAULT '',
		remote           BOOLEAN NOT NULL DEFAULT FALSE,
		salary_min       INTEGER,
		salary_max       INTEGER,
		salary_currency  TEXT NOT NULL DEFAULT '',
		vacancies        INTEGER,
		requirements     TEXT[] NOT NULL DEFAULT '{}',
		benefits         TEXT[] NOT NULL DEFAULT '{}',
		tags             TEXT[] NOT NULL DEFAULT '{}',
		description      TEXT NOT NULL DEFAULT '',
		deadline         TIMESTAMPTZ,
		apply_url        TEXT NOT NULL DEFAULT '',
		external_id      TEXT NOT NULL DEFAULT '',
		posted_by        TEXT NOT NULL,
		posted_by_name   TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_tenant_created_idx ON jobs (tenant_id, created_at DESC, id)`,
	`CREATE INDEX IF NOT EXISTS jobs_tenant_poster_idx ON jobs (tenant_id, posted_by)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS jobs_tenant_external_idx ON jobs (tenant_id, external_id) WHERE external_id <> ''`,
	`CREATE TABLE IF NOT EXISTS applications (
		id             UUID PRIMARY KEY,
		tenant_id      TEXT NOT NULL,
		job_id         UUID NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
		applicant_id   TEXT NOT NULL,
		contact_name   TEXT NOT NULL,
		contact_email  TEXT NOT NULL,
		contact_phone  TEXT NOT NULL,
		skills         TEXT[] NOT NULL DEFAULT '{}',
		experience     TEXT NOT NULL,
		message        TEXT NOT NULL DEFAULT '',
		resume         JSONB,
		status         TEXT NOT NULL,
		applied_at     TIMESTAMPTZ NOT NULL,
		reviewed_by    TEXT NOT NULL DEFAULT '',
		reviewed_at    TIMESTAMPTZ,
		review_notes   TEXT NOT NULL DEFAULT '',
		UNIQUE (tenant_id, job_id, applicant_id)
	)`,
	`CREATE INDEX IF NOT EXISTS applications_candidate_idx ON applications (tenant_id, applicant_id, applied_at DESC)`,
	`CREATE TABLE IF NOT EXISTS saved_jobs (
		tenant_id  TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		job_id     UUID NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
		saved_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (tenant_id, user_id, job_id)
	)`,
}

// Migrate creates the tables and indexes when they do not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate step %d: %w", i+1, err)
		}
	}
	s.logger.Info("schema ready", "statements", len(schema))
	return nil
}
