package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

func TestJobFilter_EmptySpecScopesTenantOnly(t *testing.T) {
	t.Parallel()

	w := jobFilter("t1", domain.FilterSpec{Location: "all", Type: " All "})
	assert.Equal(t, "tenant_id = $1", w.String())
	assert.Equal(t, []any{"t1"}, w.args)
}

func TestJobFilter_Facets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    domain.FilterSpec
		clause  string
		argsLen int
	}{
		{
			name:    "search text covers tags",
			spec:    domain.FilterSpec{SearchText: "go_lang"},
			clause:  "EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $2)",
			argsLen: 2,
		},
		{
			name:    "remote location",
			spec:    domain.FilterSpec{Location: "Remote"},
			clause:  "tenant_id = $1 AND remote",
			argsLen: 1,
		},
		{
			name:    "exact type",
			spec:    domain.FilterSpec{Type: "Full-Time"},
			clause:  "lower(btrim(type)) = lower($2)",
			argsLen: 2,
		},
		{
			name:    "open ended salary bucket",
			spec:    domain.FilterSpec{SalaryBucket: "150k+"},
			clause:  "(salary_min IS NOT NULL AND salary_min >= $2)",
			argsLen: 2,
		},
		{
			name:    "bounded vacancy bucket",
			spec:    domain.FilterSpec{VacancyBucket: "2-5"},
			clause:  "(vacancies IS NOT NULL AND vacancies >= $2 AND vacancies <= $3)",
			argsLen: 3,
		},
		{
			name:    "onsite excludes hybrid",
			spec:    domain.FilterSpec{RemoteMode: "onsite"},
			clause:  "NOT remote AND location NOT ILIKE $2",
			argsLen: 2,
		},
		{
			name:    "unknown bucket matches nothing",
			spec:    domain.FilterSpec{SalaryBucket: "huge"},
			clause:  "FALSE",
			argsLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := jobFilter("t1", tt.spec)
			assert.Contains(t, w.String(), tt.clause)
			assert.Len(t, w.args, tt.argsLen)
		})
	}
}

func TestJobFilter_CombinesWithAnd(t *testing.T) {
	t.Parallel()

	w := jobFilter("t1", domain.FilterSpec{SalaryBucket: "100k-150k", RemoteMode: "remote"})
	assert.Equal(t,
		"tenant_id = $1 AND (salary_min IS NOT NULL AND salary_min >= $2 AND salary_min <= $3) AND remote",
		w.String())
	assert.Equal(t, []any{"t1", 100000, 150000}, w.args)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
}
