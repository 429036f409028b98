package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

const jobReturn = `
	OPTIONAL MATCH (a:Application)-[:FOR]->(j)
	RETURN j, count(a) AS applications`

// mutableProps are the properties an update may replace
func mutableProps(j domain.Job) map[string]any {
	var salaryMin, salaryMax any
	currency := ""
	if j.Salary != nil {
		salaryMin, salaryMax = int64(j.Salary.Min), int64(j.Salary.Max)
		currency = j.Salary.Currency
	}
	return map[string]any{
		"company":        j.Company,
		"position":       j.Position,
		"location":       j.Location,
		"type":           j.Type,
		"experience":     j.Experience,
		"industry":       j.Industry,
		"remote":         j.Remote,
		"salaryMin":      salaryMin,
		"salaryMax":      salaryMax,
		"salaryCurrency": currency,
		"vacancies":      intOrNil(j.Vacancies),
		"requirements":   stringList(j.Requirements),
		"benefits":       stringList(j.Benefits),
		"tags":           stringList(j.Tags),
		"description":    j.Description,
		"deadline":       timeOrNil(j.Deadline),
		"applyUrl":       j.ApplyURL,
		"updatedAt":      j.UpdatedAt,
	}
}

func jobProps(j domain.Job) map[string]any {
	p := mutableProps(j)
	p["id"] = j.ID.String()
	p["tenantId"] = j.TenantID
	p["externalId"] = j.ExternalID
	p["postedBy"] = j.PostedBy.UserID
	p["postedByName"] = j.PostedBy.Name
	p["createdAt"] = j.CreatedAt
	return p
}

func recordToJob(rec *neo4j.Record) (domain.Job, error) {
	p, err := nodeProps(rec, "j")
	if err != nil {
		return domain.Job{}, err
	}
	id, err := p.uuid("id")
	if err != nil {
		return domain.Job{}, err
	}

	j := domain.Job{
		ID:           id,
		TenantID:     p.str("tenantId"),
		Company:      p.str("company"),
		Position:     p.str("position"),
		Location:     p.str("location"),
		Type:         p.str("type"),
		Experience:   p.str("experience"),
		Industry:     p.str("industry"),
		Remote:       p.boolean("remote"),
		Vacancies:    p.intPtr("vacancies"),
		Requirements: p.strings("requirements"),
		Benefits:     p.strings("benefits"),
		Tags:         p.strings("tags"),
		Description:  p.str("description"),
		Deadline:     p.timePtr("deadline"),
		ApplyURL:     p.str("applyUrl"),
		ExternalID:   p.str("externalId"),
		PostedBy:     domain.Poster{UserID: p.str("postedBy"), Name: p.str("postedByName")},
		CreatedAt:    p.time("createdAt"),
		UpdatedAt:    p.time("updatedAt"),
	}
	if floor := p.intPtr("salaryMin"); floor != nil {
		j.Salary = &domain.Salary{Min: *floor, Currency: p.str("salaryCurrency")}
		if ceil := p.intPtr("salaryMax"); ceil != nil {
			j.Salary.Max = *ceil
		}
	}
	if n, ok := rec.Get("applications"); ok {
		if c, ok := n.(int64); ok {
			j.ApplicationsCount = int(c)
		}
	}
	return j, nil
}

func recordsToJobs(records []*neo4j.Record) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0, len(records))
	for _, rec := range records {
		j, err := recordToJob(rec)
		if err != nil {
			return nil, fmt.Errorf("neo4j: decode job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// CreateJob stores the job and links it to its company node
func (s *Store) CreateJob(ctx context.Context, j domain.Job) error {
	query := `
		CREATE (j:Job)
		SET j = $props
		MERGE (c:Company {tenantId: $tenantId, name: $company})
		MERGE (j)-[:OFFERED_BY]->(c)`

	params := map[string]any{"props": jobProps(j), "tenantId": j.TenantID, "company": j.Company}
	if _, err := s.exec(ctx, query, params); err != nil {
		return fmt.Errorf("neo4j: create job: %w", err)
	}
	return nil
}

func (s *Store) UpdateJob(ctx context.Context, j domain.Job) error {
	query := `
		MATCH (j:Job {id: $id, tenantId: $tenantId})
		SET j += $props
		WITH j
		OPTIONAL MATCH (j)-[old:OFFERED_BY]->(:Company)
		DELETE old
		WITH DISTINCT j
		MERGE (c:Company {tenantId: $tenantId, name: j.company})
		MERGE (j)-[:OFFERED_BY]->(c)
		RETURN j.id AS id`

	records, err := s.exec(ctx, query, map[string]any{
		"id":       j.ID.String(),
		"tenantId": j.TenantID,
		"props":    mutableProps(j),
	})
	if err != nil {
		return fmt.Errorf("neo4j: update job: %w", err)
	}
	if len(records) == 0 {
		return notFound("job", j.ID)
	}
	return nil
}

// DeleteJob removes the job with its applications; DETACH drops saved links
func (s *Store) DeleteJob(ctx context.Context, tenant domain.TenantID, id domain.JobID) error {
	query := `
		MATCH (j:Job {id: $id, tenantId: $tenantId})
		OPTIONAL MATCH (a:Application)-[:FOR]->(j)
		WITH j, collect(a) AS apps
		FOREACH (app IN apps | DETACH DELETE app)
		DETACH DELETE j
		RETURN $id AS id`

	records, err := s.exec(ctx, query, map[string]any{"id": id.String(), "tenantId": tenant})
	if err != nil {
		return fmt.Errorf("neo4j: delete job: %w", err)
	}
	if len(records) == 0 {
		return notFound("job", id)
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, tenant domain.TenantID, id domain.JobID) (domain.Job, error) {
	records, err := s.client.Read(ctx,
		`MATCH (j:Job {id: $id, tenantId: $tenantId})`+jobReturn,
		map[string]any{"id": id.String(), "tenantId": tenant})
	if err != nil {
		return domain.Job{}, fmt.Errorf("neo4j: get job: %w", err)
	}
	if len(records) == 0 {
		return domain.Job{}, notFound("job", id)
	}
	return recordToJob(records[0])
}

func (s *Store) FindByExternalID(ctx context.Context, tenant domain.TenantID, externalID string) (domain.Job, error) {
	if externalID == "" {
		return domain.Job{}, fmt.Errorf("job with empty external id: %w", domain.ErrNotFound)
	}
	records, err := s.client.Read(ctx,
		`MATCH (j:Job {tenantId: $tenantId, externalId: $externalId}) WITH j LIMIT 1`+jobReturn,
		map[string]any{"tenantId": tenant, "externalId": externalID})
	if err != nil {
		return domain.Job{}, fmt.Errorf("neo4j: find job by external id: %w", err)
	}
	if len(records) == 0 {
		return domain.Job{}, fmt.Errorf("job with external id %q: %w", externalID, domain.ErrNotFound)
	}
	return recordToJob(records[0])
}

func (s *Store) ListJobs(ctx context.Context, tenant domain.TenantID, spec domain.FilterSpec) (domain.JobListResult, error) {
	spec = spec.Normalize()
	where, params := jobFilter(tenant, spec)

	countRecs, err := s.client.Read(ctx, `MATCH (j:Job) WHERE `+where+` RETURN count(j) AS total`, params)
	if err != nil {
		return domain.JobListResult{}, fmt.Errorf("neo4j: count jobs: %w", err)
	}
	total := 0
	if len(countRecs) > 0 {
		if n, ok := countRecs[0].Get("total"); ok {
			if c, ok := n.(int64); ok {
				total = int(c)
			}
		}
	}

	p := domain.NewPagination(spec.Page, spec.PageSize, total)
	params["skip"] = int64(p.Offset())
	params["limit"] = int64(p.PageSize)

	query := `
		MATCH (j:Job) WHERE ` + where + `
		WITH j ORDER BY j.createdAt DESC, j.id SKIP $skip LIMIT $limit` + jobReturn + `
		ORDER BY j.createdAt DESC, j.id`

	records, err := s.client.Read(ctx, query, params)
	if err != nil {
		return domain.JobListResult{}, fmt.Errorf("neo4j: list jobs: %w", err)
	}
	jobs, err := recordsToJobs(records)
	if err != nil {
		return domain.JobListResult{}, err
	}
	return domain.JobListResult{Jobs: jobs, Pagination: p}, nil
}

func (s *Store) ListJobsByPoster(ctx context.Context, tenant domain.TenantID, poster domain.UserID) ([]domain.Job, error) {
	records, err := s.client.Read(ctx,
		`MATCH (j:Job {tenantId: $tenantId, postedBy: $poster})`+jobReturn+` ORDER BY j.createdAt DESC, j.id`,
		map[string]any{"tenantId": tenant, "poster": poster})
	if err != nil {
		return nil, fmt.Errorf("neo4j: list jobs by poster: %w", err)
	}
	return recordsToJobs(records)
}
