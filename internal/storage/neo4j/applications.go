package neo4j

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

var errJobMissing = errors.New("job missing")

func applicationProps(a domain.Application) (map[string]any, error) {
	var resume any
	if a.Resume != nil {
		raw, err := json.Marshal(a.Resume)
		if err != nil {
			return nil, fmt.Errorf("encode resume: %w", err)
		}
		resume = string(raw)
	}
	return map[string]any{
		"id":           a.ID.String(),
		"tenantId":     a.TenantID,
		"jobId":        a.JobID.String(),
		"applicantId":  a.ApplicantID,
		"contactName":  a.Contact.Name,
		"contactEmail": a.Contact.Email,
		"contactPhone": a.Contact.Phone,
		"skills":       stringList(a.Skills),
		"experience":   a.Experience,
		"message":      a.Message,
		"resume":       resume,
		"status":       string(a.Status),
		"appliedAt":    a.AppliedAt,
		"reviewedBy":   a.Review.ReviewedBy,
		"reviewedAt":   timeOrNil(a.Review.ReviewedAt),
		"reviewNotes":  a.Review.Notes,
	}, nil
}

func recordToApplication(rec *neo4j.Record) (domain.Application, error) {
	p, err := nodeProps(rec, "a")
	if err != nil {
		return domain.Application{}, err
	}
	id, err := p.uuid("id")
	if err != nil {
		return domain.Application{}, err
	}
	jobID, err := p.uuid("jobId")
	if err != nil {
		return domain.Application{}, err
	}

	a := domain.Application{
		ID:          id,
		TenantID:    p.str("tenantId"),
		JobID:       jobID,
		ApplicantID: p.str("applicantId"),
		Contact: domain.Contact{
			Name:  p.str("contactName"),
			Email: p.str("contactEmail"),
			Phone: p.str("contactPhone"),
		},
		Skills:     p.strings("skills"),
		Experience: p.str("experience"),
		Message:    p.str("message"),
		Status:     domain.Status(p.str("status")),
		AppliedAt:  p.time("appliedAt"),
		Review: domain.Review{
			ReviewedBy: p.str("reviewedBy"),
			ReviewedAt: p.timePtr("reviewedAt"),
			Notes:      p.str("reviewNotes"),
		},
	}
	if raw := p.str("resume"); raw != "" {
		var ref domain.ResumeRef
		if err := json.Unmarshal([]byte(raw), &ref); err != nil {
			return domain.Application{}, fmt.Errorf("decode resume: %w", err)
		}
		a.Resume = &ref
	}
	return a, nil
}

func recordsToApplications(records []*neo4j.Record) ([]domain.Application, error) {
	apps := make([]domain.Application, 0, len(records))
	for _, rec := range records {
		a, err := recordToApplication(rec)
		if err != nil {
			return nil, fmt.Errorf("neo4j: decode application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, nil
}

// CreateApplication checks the job and the (job, applicant) pair in the
// same transaction; the composite constraint covers concurrent writers
func (s *Store) CreateApplication(ctx context.Context, app domain.Application) error {
	params, err := applicationProps(app)
	if err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}

	guard := `
		MATCH (j:Job {id: $jobId, tenantId: $tenantId})
		OPTIONAL MATCH (dup:Application {tenantId: $tenantId, jobId: $jobId, applicantId: $applicantId})
		RETURN dup IS NOT NULL AS duplicate`
	create := `
		MATCH (j:Job {id: $jobId, tenantId: $tenantId})
		CREATE (a:Application)-[:FOR]->(j)
		SET a = $props
		MERGE (u:User {tenantId: $tenantId, id: $applicantId})
		MERGE (u)-[:SUBMITTED]->(a)`

	_, err = s.client.Write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		keys := map[string]any{
			"jobId":       params["jobId"],
			"tenantId":    params["tenantId"],
			"applicantId": params["applicantId"],
		}
		res, err := tx.Run(ctx, guard, keys)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, errJobMissing
		}
		if v, _ := records[0].Get("duplicate"); v == any(true) {
			return nil, domain.ErrDuplicateApplication
		}

		keys["props"] = params
		res, err = tx.Run(ctx, create, keys)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errJobMissing):
		return notFound("job", app.JobID)
	case errors.Is(err, domain.ErrDuplicateApplication), isConstraintViolation(err):
		return domain.ErrDuplicateApplication
	}
	return fmt.Errorf("neo4j: create application: %w", err)
}

func (s *Store) GetApplication(ctx context.Context, tenant domain.TenantID, id domain.ApplicationID) (domain.Application, error) {
	records, err := s.client.Read(ctx,
		`MATCH (a:Application {id: $id, tenantId: $tenantId}) RETURN a`,
		map[string]any{"id": id.String(), "tenantId": tenant})
	if err != nil {
		return domain.Application{}, fmt.Errorf("neo4j: get application: %w", err)
	}
	if len(records) == 0 {
		return domain.Application{}, notFound("application", id)
	}
	return recordToApplication(records[0])
}

func (s *Store) UpdateReview(ctx context.Context, app domain.Application) error {
	query := `
		MATCH (a:Application {id: $id, tenantId: $tenantId})
		SET a.status = $status, a.reviewedBy = $reviewedBy, a.reviewedAt = $reviewedAt, a.reviewNotes = $notes
		RETURN a.id AS id`

	records, err := s.exec(ctx, query, map[string]any{
		"id":         app.ID.String(),
		"tenantId":   app.TenantID,
		"status":     string(app.Status),
		"reviewedBy": app.Review.ReviewedBy,
		"reviewedAt": timeOrNil(app.Review.ReviewedAt),
		"notes":      app.Review.Notes,
	})
	if err != nil {
		return fmt.Errorf("neo4j: update review: %w", err)
	}
	if len(records) == 0 {
		return notFound("application", app.ID)
	}
	return nil
}

func (s *Store) DeleteApplication(ctx context.Context, tenant domain.TenantID, id domain.ApplicationID) error {
	records, err := s.exec(ctx,
		`MATCH (a:Application {id: $id, tenantId: $tenantId}) DETACH DELETE a RETURN $id AS id`,
		map[string]any{"id": id.String(), "tenantId": tenant})
	if err != nil {
		return fmt.Errorf("neo4j: delete application: %w", err)
	}
	if len(records) == 0 {
		return notFound("application", id)
	}
	return nil
}

func (s *Store) ListByJob(ctx context.Context, tenant domain.TenantID, jobID domain.JobID) ([]domain.Application, error) {
	records, err := s.client.Read(ctx, `
		MATCH (a:Application {tenantId: $tenantId})-[:FOR]->(:Job {id: $jobId})
		RETURN a ORDER BY a.appliedAt DESC, a.id`,
		map[string]any{"tenantId": tenant, "jobId": jobID.String()})
	if err != nil {
		return nil, fmt.Errorf("neo4j: list applications by job: %w", err)
	}
	return recordsToApplications(records)
}

func (s *Store) ListByCandidate(ctx context.Context, tenant domain.TenantID, candidate domain.UserID, limit int) ([]domain.Application, error) {
	query := `
		MATCH (a:Application {tenantId: $tenantId, applicantId: $candidate})
		RETURN a ORDER BY a.appliedAt DESC, a.id`
	params := map[string]any{"tenantId": tenant, "candidate": candidate}
	if limit > 0 {
		query += ` LIMIT $limit`
		params["limit"] = int64(limit)
	}

	records, err := s.client.Read(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("neo4j: list applications by candidate: %w", err)
	}
	return recordsToApplications(records)
}
