package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

const jobColumns = `id, tenant_id, company, position, location, type, experience, industry, remote,
	salary_min, salary_max, salary_currency, vacancies, requirements, benefits, tags, description,
	deadline, apply_url, external_id, posted_by, posted_by_name, created_at, updated_at,
	(SELECT COUNT(*) FROM applications a WHERE a.job_id = jobs.id) AS applications_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (domain.Job, error) {
	var j domain.Job
	var salaryMin, salaryMax, vacancies sql.NullInt64
	var currency string
	var deadline sql.NullTime
	err := row.Scan(
		&j.ID, &j.TenantID, &j.Company, &j.Position, &j.Location, &j.Type, &j.Experience, &j.Industry, &j.Remote,
		&salaryMin, &salaryMax, &currency, &vacancies,
		pq.Array(&j.Requirements), pq.Array(&j.Benefits), pq.Array(&j.Tags), &j.Description,
		&deadline, &j.ApplyURL, &j.ExternalID, &j.PostedBy.UserID, &j.PostedBy.Name, &j.CreatedAt, &j.UpdatedAt,
		&j.ApplicationsCount,
	)
	if err != nil {
		return domain.Job{}, err
	}

	if salaryMin.Valid {
		j.Salary = &domain.Salary{Min: int(salaryMin.Int64), Max: int(salaryMax.Int64), Currency: currency}
	}
	if vacancies.Valid {
		v := int(vacancies.Int64)
		j.Vacancies = &v
	}
	if deadline.Valid {
		d := deadline.Time.UTC()
		j.Deadline = &d
	}
	j.CreatedAt = j.CreatedAt.UTC()
	j.UpdatedAt = j.UpdatedAt.UTC()
	return j, nil
}

// nullable columns shared by insert and update
func jobNullables(j domain.Job) (salaryMin, salaryMax sql.NullInt64, currency string, vacancies sql.NullInt64, deadline sql.NullTime) {
	if j.Salary != nil {
		salaryMin = sql.NullInt64{Int64: int64(j.Salary.Min), Valid: true}
		salaryMax = sql.NullInt64{Int64: int64(j.Salary.Max), Valid: true}
		currency = j.Salary.Currency
	}
	if j.Vacancies != nil {
		vacancies = sql.NullInt64{Int64: int64(*j.Vacancies), Valid: true}
	}
	if j.Deadline != nil {
		deadline = sql.NullTime{Time: *j.Deadline, Valid: true}
	}
	return
}

func stringArray(v []string) any {
	if v == nil {
		v = []string{}
	}
	return pq.Array(v)
}

func (s *Store) CreateJob(ctx context.Context, j domain.Job) error {
	salaryMin, salaryMax, currency, vacancies, deadline := jobNullables(j)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, tenant_id, company, position, location, type, experience, industry, remote,
			salary_min, salary_max, salary_currency, vacancies, requirements, benefits, tags, description,
			deadline, apply_url, external_id, posted_by, posted_by_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24)`,
		j.ID, j.TenantID, j.Company, j.Position, j.Location, j.Type, j.Experience, j.Industry, j.Remote,
		salaryMin, salaryMax, currency, vacancies,
		stringArray(j.Requirements), stringArray(j.Benefits), stringArray(j.Tags), j.Description,
		deadline, j.ApplyURL, j.ExternalID, j.PostedBy.UserID, j.PostedBy.Name, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("postgres: insert job %s: external id %q already imported", j.ID, j.ExternalID)
		}
		return fmt.Errorf("postgres: insert job: %w", err)
	}
	return nil
}

func (s *Store) UpdateJob(ctx context.Context, j domain.Job) error {
	salaryMin, salaryMax, currency, vacancies, deadline := jobNullables(j)

	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET company = $3, position = $4, location = $5, type = $6, experience = $7,
			industry = $8, remote = $9, salary_min = $10, salary_max = $11, salary_currency = $12,
			vacancies = $13, requirements = $14, benefits = $15, tags = $16, description = $17,
			deadline = $18, apply_url = $19, updated_at = $20
		WHERE id = $1 AND tenant_id = $2`,
		j.ID, j.TenantID, j.Company, j.Position, j.Location, j.Type, j.Experience,
		j.Industry, j.Remote, salaryMin, salaryMax, currency,
		vacancies, stringArray(j.Requirements), stringArray(j.Benefits), stringArray(j.Tags), j.Description,
		deadline, j.ApplyURL, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update job: %w", err)
	}
	return expectOne(res, "job", j.ID)
}

// DeleteJob relies on ON DELETE CASCADE for applications and saved entries
func (s *Store) DeleteJob(ctx context.Context, tenant domain.TenantID, id domain.JobID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND tenant_id = $2`, id, tenant)
	if err != nil {
		return fmt.Errorf("postgres: delete job: %w", err)
	}
	return expectOne(res, "job", id)
}

func (s *Store) GetJob(ctx context.Context, tenant domain.TenantID, id domain.JobID) (domain.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND tenant_id = $2`, id, tenant)

	j, err := scanJob(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Job{}, notFound("job", id)
	case err != nil:
		return domain.Job{}, fmt.Errorf("postgres: get job: %w", err)
	}
	return j, nil
}

func (s *Store) FindByExternalID(ctx context.Context, tenant domain.TenantID, externalID string) (domain.Job, error) {
	if externalID == "" {
		return domain.Job{}, fmt.Errorf("job with empty external id: %w", domain.ErrNotFound)
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE tenant_id = $1 AND external_id = $2`, tenant, externalID)

	j, err := scanJob(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Job{}, fmt.Errorf("job with external id %q: %w", externalID, domain.ErrNotFound)
	case err != nil:
		return domain.Job{}, fmt.Errorf("postgres: find job by external id: %w", err)
	}
	return j, nil
}

// ListJobs counts the filtered set, then fetches one page newest first
func (s *Store) ListJobs(ctx context.Context, tenant domain.TenantID, spec domain.FilterSpec) (domain.JobListResult, error) {
	spec = spec.Normalize()
	w := jobFilter(tenant, spec)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return domain.JobListResult{}, fmt.Errorf("postgres: count jobs: %w", err)
	}

	p := domain.NewPagination(spec.Page, spec.PageSize, total)
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC, id LIMIT %s OFFSET %s`,
		jobColumns, w.String(), w.arg(p.PageSize), w.arg(p.Offset()))

	jobs, err := s.queryJobs(ctx, query, w.args...)
	if err != nil {
		return domain.JobListResult{}, err
	}
	return domain.JobListResult{Jobs: jobs, Pagination: p}, nil
}

func (s *Store) ListJobsByPoster(ctx context.Context, tenant domain.TenantID, poster domain.UserID) ([]domain.Job, error) {
	return s.queryJobs(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE tenant_id = $1 AND posted_by = $2 ORDER BY created_at DESC, id`,
		tenant, poster)
}

func (s *Store) queryJobs(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate jobs: %w", err)
	}
	return jobs, nil
}
