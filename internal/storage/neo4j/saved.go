package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// SaveJob links the user to the job; an existing link keeps its timestamp
func (s *Store) SaveJob(ctx context.Context, tenant domain.TenantID, user domain.UserID, jobID domain.JobID) error {
	query := `
		MATCH (j:Job {id: $jobId, tenantId: $tenantId})
		MERGE (u:User {tenantId: $tenantId, id: $userId})
		MERGE (u)-[r:SAVED]->(j)
		ON CREATE SET r.savedAt = $now
		RETURN j.id AS id`

	records, err := s.exec(ctx, query, map[string]any{
		"jobId":    jobID.String(),
		"tenantId": tenant,
		"userId":   user,
		"now":      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("neo4j: save job: %w", err)
	}
	if len(records) == 0 {
		return notFound("job", jobID)
	}
	return nil
}

func (s *Store) UnsaveJob(ctx context.Context, tenant domain.TenantID, user domain.UserID, jobID domain.JobID) error {
	query := `
		MATCH (:User {tenantId: $tenantId, id: $userId})-[r:SAVED]->(:Job {id: $jobId})
		DELETE r`

	_, err := s.exec(ctx, query, map[string]any{"jobId": jobID.String(), "tenantId": tenant, "userId": user})
	if err != nil {
		return fmt.Errorf("neo4j: unsave job: %w", err)
	}
	return nil
}

func (s *Store) SavedJobIDs(ctx context.Context, tenant domain.TenantID, user domain.UserID) ([]domain.JobID, error) {
	records, err := s.client.Read(ctx, `
		MATCH (:User {tenantId: $tenantId, id: $userId})-[r:SAVED]->(j:Job)
		RETURN j.id AS id ORDER BY r.savedAt DESC, j.id`,
		map[string]any{"tenantId": tenant, "userId": user})
	if err != nil {
		return nil, fmt.Errorf("neo4j: saved jobs: %w", err)
	}

	ids := make([]domain.JobID, 0, len(records))
	for _, rec := range records {
		raw, _ := rec.Get("id")
		str, _ := raw.(string)
		id, err := uuid.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("neo4j: saved job id %q: %w", str, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
