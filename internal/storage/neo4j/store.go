// Package neo4j keeps the marketplace as a graph: jobs offered by companies,
// applications linked to the job they target, and users saving jobs.
package neo4j

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/repository"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"

	pkgneo4j "github.com/honeycarbs/alumni-jobs/pkg/neo4j"
)

var _ repository.Store = (*Store)(nil)

const constraintFailed = "Neo.ClientError.Schema.ConstraintValidationFailed"

var schema = []string{
	`CREATE CONSTRAINT job_id IF NOT EXISTS FOR (j:Job) REQUIRE j.id IS UNIQUE`,
	`CREATE CONSTRAINT application_id IF NOT EXISTS FOR (a:Application) REQUIRE a.id IS UNIQUE`,
	`CREATE CONSTRAINT application_pair IF NOT EXISTS FOR (a:Application) REQUIRE (a.tenantId, a.jobId, a.applicantId) IS UNIQUE`,
	`CREATE INDEX job_tenant_created IF NOT EXISTS FOR (j:Job) ON (j.tenantId, j.createdAt)`,
}

// Store implements repository.Store with Neo4j
type Store struct {
	client *pkgneo4j.Client
	logger *logging.Logger
}

// NewStore creates a Store over a connected client
func NewStore(client *pkgneo4j.Client, logger *logging.Logger) *Store {
	return &Store{client: client, logger: logging.OrNop(logger).Named("neo4j-store")}
}

// EnsureSchema creates the constraints and indexes the store relies on
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		_, err := s.client.Write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, stmt, nil)
			if err != nil {
				return nil, err
			}
			return res.Consume(ctx)
		})
		if err != nil {
			return fmt.Errorf("neo4j: ensure schema: %w", err)
		}
	}
	s.logger.Info("schema ready", "statements", len(schema))
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// exec runs one write statement and returns the collected records
func (s *Store) exec(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	out, err := s.client.Write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*neo4j.Record), nil
}

func isConstraintViolation(err error) bool {
	var nerr *neo4j.Neo4jError
	return errors.As(err, &nerr) && nerr.Code == constraintFailed
}

func notFound(kind string, id fmt.Stringer) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}
