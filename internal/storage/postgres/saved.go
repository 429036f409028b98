package postgres

import (
	"context"
	"fmt"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

func (s *Store) SaveJob(ctx context.Context, tenant domain.TenantID, user domain.UserID, jobID domain.JobID) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_jobs (tenant_id, user_id, job_id)
		SELECT $1, $2, id FROM jobs WHERE id = $3 AND tenant_id = $1
		ON CONFLICT (tenant_id, user_id, job_id) DO NOTHING`,
		tenant, user, jobID,
	)
	if err != nil {
		return fmt.Errorf("postgres: save job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	// zero rows: either already saved or no such job
	if _, err := s.GetJob(ctx, tenant, jobID); err != nil {
		return err
	}
	return nil
}

func (s *Store) UnsaveJob(ctx context.Context, tenant domain.TenantID, user domain.UserID, jobID domain.JobID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_jobs WHERE tenant_id = $1 AND user_id = $2 AND job_id = $3`,
		tenant, user, jobID)
	if err != nil {
		return fmt.Errorf("postgres: unsave job: %w", err)
	}
	return nil
}

func (s *Store) SavedJobIDs(ctx context.Context, tenant domain.TenantID, user domain.UserID) ([]domain.JobID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id FROM saved_jobs WHERE tenant_id = $1 AND user_id = $2 ORDER BY saved_at DESC, job_id`,
		tenant, user)
	if err != nil {
		return nil, fmt.Errorf("postgres: query saved jobs: %w", err)
	}
	defer rows.Close()

	ids := make([]domain.JobID, 0)
	for rows.Next() {
		var id domain.JobID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan saved job: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate saved jobs: %w", err)
	}
	return ids, nil
}
