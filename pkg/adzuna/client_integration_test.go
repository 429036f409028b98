package adzuna

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchJobsIntegration(t *testing.T) {
	appID, appKey := os.Getenv("ADZUNA_APP_ID"), os.Getenv("ADZUNA_APP_KEY")
	if appID == "" || appKey == "" {
		t.Skip("ADZUNA_APP_ID and ADZUNA_APP_KEY must be set to run this test")
	}

	client, err := NewClient(Config{AppID: appID, AppKey: appKey, Country: os.Getenv("ADZUNA_COUNTRY")})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	jobs, err := client.SearchJobs(ctx, "frontend engineer", SearchParams{MaxDaysOld: 30, SortBy: "date"})
	require.NoError(t, err)

	for i, job := range jobs {
		require.NotEmpty(t, job.ID)
		if i < 5 {
			t.Logf("%s @ %s (%s) remote=%t", job.Title, job.CompanyName, job.Location, job.Remote)
		}
	}
	t.Logf("Adzuna search returned %d jobs", len(jobs))
}
