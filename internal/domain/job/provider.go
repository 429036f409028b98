package job

import (
	"context"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// ImportQuery narrows an external listing search
type ImportQuery struct {
	Query    string
	Location string
	Remote   *bool
}

// Provider represents an external job board the catalog can import listings from
type Provider interface {
	// e.g. "adzuna"
	Name() string

	// Search returns listings mapped onto domain jobs. Implementations set
	// ExternalID and ApplyURL; identity, tenant and poster are filled by the catalog.
	Search(ctx context.Context, q ImportQuery) ([]domain.Job, error)
}
