package neo4j

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

func TestJobFilter(t *testing.T) {
	t.Parallel()

	where, params := jobFilter("t1", domain.FilterSpec{})
	assert.Equal(t, "j.tenantId = $tenantId", where)
	assert.Equal(t, "t1", params["tenantId"])

	where, params = jobFilter("t1", domain.FilterSpec{
		SearchText:   "  React ",
		Industry:     "FinTech",
		SalaryBucket: "100k-150k",
		RemoteMode:   "remote",
	})
	assert.Contains(t, where, "any(tag IN coalesce(j.tags, []) WHERE toLower(tag) CONTAINS $text)")
	assert.Contains(t, where, "toLower(trim(coalesce(j.industry, ''))) = $industry")
	assert.Contains(t, where, "(j.salaryMin IS NOT NULL AND j.salaryMin >= $salaryFloor AND j.salaryMin <= $salaryCeil)")
	assert.Contains(t, where, "j.remote = true")
	assert.Equal(t, "react", params["text"])
	assert.Equal(t, "fintech", params["industry"])
	assert.Equal(t, int64(100000), params["salaryFloor"])
	assert.Equal(t, int64(150000), params["salaryCeil"])
}

func TestJobFilter_OpenEndedAndUnknownBuckets(t *testing.T) {
	t.Parallel()

	where, params := jobFilter("t1", domain.FilterSpec{VacancyBucket: "10+"})
	assert.Contains(t, where, "(j.vacancies IS NOT NULL AND j.vacancies >= $vacancyFloor)")
	assert.NotContains(t, params, "vacancyCeil")

	where, _ = jobFilter("t1", domain.FilterSpec{SalaryBucket: "huge"})
	assert.Equal(t, "j.tenantId = $tenantId AND false", where)
}

func TestJobFilter_HybridIsExclusive(t *testing.T) {
	t.Parallel()

	where, params := jobFilter("t1", domain.FilterSpec{RemoteMode: "Hybrid"})
	assert.Contains(t, where, "j.remote = false AND toLower(j.location) CONTAINS $hybrid")
	assert.Equal(t, domain.RemoteModeHybrid, params["hybrid"])
}
