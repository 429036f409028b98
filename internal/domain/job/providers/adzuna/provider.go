package adzuna

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	jobdomain "github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/pkg/adzuna"
)

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, query string, params adzuna.SearchParams) ([]adzuna.Job, error)
}

// Provider implements job.Provider using Adzuna API
type Provider struct {
	client searchClient
}

var _ jobdomain.Provider = (*Provider)(nil)

// NewProvider builds an Adzuna provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return "adzuna"
}

// Search queries Adzuna and maps listings onto catalog jobs
func (p *Provider) Search(ctx context.Context, q jobdomain.ImportQuery) ([]domain.Job, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("adzuna provider: client is nil")
	}

	respJobs, err := p.client.SearchJobs(ctx, q.Query, adzuna.SearchParams{
		Location: q.Location,
		Remote:   q.Remote,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Job, 0, len(respJobs))
	for _, j := range respJobs {
		out = append(out, mapJob(j))
	}
	return out, nil
}

func mapJob(j adzuna.Job) domain.Job {
	out := domain.Job{
		ExternalID:  "adzuna:" + j.ID,
		Company:     j.CompanyName,
		Position:    j.Title,
		Location:    j.Location,
		Type:        employmentType(j.ContractTime, j.ContractType),
		Industry:    strings.TrimSuffix(j.Category, " Jobs"),
		Remote:      j.Remote,
		Description: j.Description,
		ApplyURL:    j.URL,
	}
	// predicted ranges would skew the salary facet
	if !j.SalaryEstimated && (j.SalaryMin > 0 || j.SalaryMax > 0) {
		out.Salary = &domain.Salary{Min: int(j.SalaryMin), Max: int(j.SalaryMax)}
	}
	return out
}

func employmentType(contractTime, contractType string) string {
	switch {
	case strings.EqualFold(contractType, "contract"):
		return "contract"
	case strings.EqualFold(contractTime, "part_time"):
		return "part-time"
	case strings.EqualFold(contractTime, "full_time"):
		return "full-time"
	}
	return ""
}
