package adzuna

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobdomain "github.com/honeycarbs/alumni-jobs/internal/domain/job"
	"github.com/honeycarbs/alumni-jobs/pkg/adzuna"
)

type stubClient struct {
	gotQuery  string
	gotParams adzuna.SearchParams
	jobs      []adzuna.Job
	err       error
}

func (s *stubClient) SearchJobs(_ context.Context, query string, params adzuna.SearchParams) ([]adzuna.Job, error) {
	s.gotQuery = query
	s.gotParams = params
	return s.jobs, s.err
}

func TestProvider_SearchMapsListings(t *testing.T) {
	t.Parallel()

	remote := true
	client := &stubClient{jobs: []adzuna.Job{
		{
			ID:           "4242",
			Title:        "Data Engineer",
			CompanyName:  "Initech",
			Location:     "Austin, TX",
			URL:          "https://adzuna.example/redirect/4242",
			Category:     "IT Jobs",
			ContractTime: "part_time",
			SalaryMin:    85000.4,
			SalaryMax:    99000,
		},
		{ID: "7", Title: "Contractor", ContractType: "contract"},
	}}

	p, err := NewProvider(client)
	require.NoError(t, err)
	assert.Equal(t, "adzuna", p.Name())

	jobs, err := p.Search(context.Background(), jobdomain.ImportQuery{Query: "data", Location: "Austin", Remote: &remote})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "data", client.gotQuery)
	assert.Equal(t, "Austin", client.gotParams.Location)
	assert.Same(t, &remote, client.gotParams.Remote)

	first := jobs[0]
	assert.Equal(t, "adzuna:4242", first.ExternalID)
	assert.Equal(t, "Initech", first.Company)
	assert.Equal(t, "Data Engineer", first.Position)
	assert.Equal(t, "part-time", first.Type)
	assert.Equal(t, "IT", first.Industry)
	assert.Equal(t, "https://adzuna.example/redirect/4242", first.ApplyURL)
	require.NotNil(t, first.Salary)
	assert.Equal(t, 85000, first.Salary.Min)

	assert.Equal(t, "contract", jobs[1].Type)
	assert.Nil(t, jobs[1].Salary)
}

func TestProvider_SearchPropagatesErrors(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(&stubClient{err: errors.New("boom")})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), jobdomain.ImportQuery{Query: "x"})
	require.Error(t, err)

	_, err = NewProvider(nil)
	require.Error(t, err)
}

func TestProvider_DropsPredictedSalary(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(&stubClient{jobs: []adzuna.Job{{
		ID: "7", Title: "Analyst", CompanyName: "Initech", SalaryMin: 40000, SalaryMax: 45000, SalaryEstimated: true,
	}}})
	require.NoError(t, err)

	jobs, err := p.Search(context.Background(), jobdomain.ImportQuery{Query: "analyst"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Nil(t, jobs[0].Salary)
	assert.Equal(t, "adzuna:7", jobs[0].ExternalID)
}
