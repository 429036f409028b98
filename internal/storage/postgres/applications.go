package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

const applicationColumns = `id, tenant_id, job_id, applicant_id, contact_name, contact_email, contact_phone,
	skills, experience, message, resume, status, applied_at, reviewed_by, reviewed_at, review_notes`

func scanApplication(row rowScanner) (domain.Application, error) {
	var a domain.Application
	var resume []byte
	var reviewedAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.TenantID, &a.JobID, &a.ApplicantID, &a.Contact.Name, &a.Contact.Email, &a.Contact.Phone,
		pq.Array(&a.Skills), &a.Experience, &a.Message, &resume, &a.Status, &a.AppliedAt,
		&a.Review.ReviewedBy, &reviewedAt, &a.Review.Notes,
	)
	if err != nil {
		return domain.Application{}, err
	}

	if len(resume) > 0 {
		var ref domain.ResumeRef
		if err := json.Unmarshal(resume, &ref); err != nil {
			return domain.Application{}, fmt.Errorf("decode resume: %w", err)
		}
		a.Resume = &ref
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time.UTC()
		a.Review.ReviewedAt = &t
	}
	a.AppliedAt = a.AppliedAt.UTC()
	return a, nil
}

// CreateApplication checks the job inside the same transaction so a
// concurrent delete cannot leave an orphan
func (s *Store) CreateApplication(ctx context.Context, app domain.Application) error {
	var resume []byte
	if app.Resume != nil {
		raw, err := json.Marshal(app.Resume)
		if err != nil {
			return fmt.Errorf("postgres: encode resume: %w", err)
		}
		resume = raw
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM jobs WHERE id = $1 AND tenant_id = $2 FOR SHARE`,
			app.JobID, app.TenantID).Scan(&one)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return notFound("job", app.JobID)
		case err != nil:
			return fmt.Errorf("postgres: check job: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO applications (id, tenant_id, job_id, applicant_id, contact_name, contact_email,
				contact_phone, skills, experience, message, resume, status, applied_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			app.ID, app.TenantID, app.JobID, app.ApplicantID, app.Contact.Name, app.Contact.Email,
			app.Contact.Phone, stringArray(app.Skills), app.Experience, app.Message, resume, app.Status, app.AppliedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateApplication
			}
			return fmt.Errorf("postgres: insert application: %w", err)
		}
		return nil
	})
}

func (s *Store) GetApplication(ctx context.Context, tenant domain.TenantID, id domain.ApplicationID) (domain.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND tenant_id = $2`, id, tenant)

	app, err := scanApplication(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Application{}, notFound("application", id)
	case err != nil:
		return domain.Application{}, fmt.Errorf("postgres: get application: %w", err)
	}
	return app, nil
}

func (s *Store) UpdateReview(ctx context.Context, app domain.Application) error {
	var reviewedAt sql.NullTime
	if app.Review.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *app.Review.ReviewedAt, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE applications SET status = $3, reviewed_by = $4, reviewed_at = $5, review_notes = $6
		WHERE id = $1 AND tenant_id = $2`,
		app.ID, app.TenantID, app.Status, app.Review.ReviewedBy, reviewedAt, app.Review.Notes,
	)
	if err != nil {
		return fmt.Errorf("postgres: update review: %w", err)
	}
	return expectOne(res, "application", app.ID)
}

func (s *Store) DeleteApplication(ctx context.Context, tenant domain.TenantID, id domain.ApplicationID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1 AND tenant_id = $2`, id, tenant)
	if err != nil {
		return fmt.Errorf("postgres: delete application: %w", err)
	}
	return expectOne(res, "application", id)
}

func (s *Store) ListByJob(ctx context.Context, tenant domain.TenantID, jobID domain.JobID) ([]domain.Application, error) {
	return s.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications
		WHERE tenant_id = $1 AND job_id = $2 ORDER BY applied_at DESC, id`,
		tenant, jobID)
}

func (s *Store) ListByCandidate(ctx context.Context, tenant domain.TenantID, candidate domain.UserID, limit int) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
		WHERE tenant_id = $1 AND applicant_id = $2 ORDER BY applied_at DESC, id`
	args := []any{tenant, candidate}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	return s.queryApplications(ctx, query, args...)
}

func (s *Store) queryApplications(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query applications: %w", err)
	}
	defer rows.Close()

	apps := make([]domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate applications: %w", err)
	}
	return apps, nil
}
