package job

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

func intPtr(v int) *int { return &v }

func fixtureJobs() []domain.Job {
	return []domain.Job{
		{
			ID: uuid.New(), Position: "Frontend Engineer", Company: "Acme", Location: "Remote",
			Type: "full-time", Experience: "senior", Industry: "Software", Remote: true,
			Salary: &domain.Salary{Min: 120000, Max: 150000, Currency: "USD"}, Vacancies: intPtr(2),
			Tags: []string{"react", "typescript"},
		},
		{
			ID: uuid.New(), Position: "Data Analyst", Company: "Globex", Location: "Pune (Hybrid)",
			Type: "contract", Experience: "mid", Industry: "Finance",
			Salary: &domain.Salary{Min: 60000, Max: 70000}, Vacancies: intPtr(1),
		},
		{
			ID: uuid.New(), Position: "Lab Assistant", Company: "Initech", Location: "Bengaluru",
			Type: "part-time", Experience: "entry", Industry: "Education",
			Description: "Support the chemistry department",
		},
		{
			ID: uuid.New(), Position: "Platform Engineer", Company: "Umbrella", Location: "Berlin",
			Type: "full-time", Experience: "senior", Industry: "Software", Remote: true,
			Salary: &domain.Salary{Min: 90000, Max: 130000}, Vacancies: intPtr(12),
		},
	}
}

func positions(jobs []domain.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Position)
	}
	return out
}

func TestRefilter_Facets(t *testing.T) {
	t.Parallel()

	jobs := fixtureJobs()

	tests := []struct {
		name string
		spec domain.FilterSpec
		want []string
	}{
		{"empty spec keeps all", domain.FilterSpec{}, []string{"Frontend Engineer", "Data Analyst", "Lab Assistant", "Platform Engineer"}},
		{"all facets are no-ops", domain.FilterSpec{Type: "all", Industry: "ALL", SalaryBucket: "all", VacancyBucket: "all", RemoteMode: "all", Location: "all"}, []string{"Frontend Engineer", "Data Analyst", "Lab Assistant", "Platform Engineer"}},
		{"text matches tag", domain.FilterSpec{SearchText: "REACT"}, []string{"Frontend Engineer"}},
		{"text matches description", domain.FilterSpec{SearchText: "chemistry"}, []string{"Lab Assistant"}},
		{"text matches location", domain.FilterSpec{SearchText: "berlin"}, []string{"Platform Engineer"}},
		{"type exact", domain.FilterSpec{Type: "full-time"}, []string{"Frontend Engineer", "Platform Engineer"}},
		{"experience exact", domain.FilterSpec{Experience: "Entry"}, []string{"Lab Assistant"}},
		{"industry exact", domain.FilterSpec{Industry: "finance"}, []string{"Data Analyst"}},
		{"location remote keyword", domain.FilterSpec{Location: "remote"}, []string{"Frontend Engineer", "Platform Engineer"}},
		{"location hybrid keyword", domain.FilterSpec{Location: "hybrid"}, []string{"Data Analyst"}},
		{"location substring", domain.FilterSpec{Location: "bengal"}, []string{"Lab Assistant"}},
		{"remote mode remote", domain.FilterSpec{RemoteMode: "remote"}, []string{"Frontend Engineer", "Platform Engineer"}},
		{"remote mode hybrid", domain.FilterSpec{RemoteMode: "hybrid"}, []string{"Data Analyst"}},
		{"remote mode onsite", domain.FilterSpec{RemoteMode: "onsite"}, []string{"Lab Assistant"}},
		{"salary bucket excludes missing salary", domain.FilterSpec{SalaryBucket: "0-50k"}, []string{}},
		{"salary bucket on min", domain.FilterSpec{SalaryBucket: "50k-75k"}, []string{"Data Analyst"}},
		{"vacancy bucket", domain.FilterSpec{VacancyBucket: "10+"}, []string{"Platform Engineer"}},
		{"vacancy bucket excludes missing", domain.FilterSpec{VacancyBucket: "1"}, []string{"Data Analyst"}},
		{"and across facets", domain.FilterSpec{Type: "full-time", Experience: "senior", SearchText: "platform"}, []string{"Platform Engineer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, positions(Refilter(jobs, tt.spec)))
		})
	}
}

func TestRefilter_SalaryAndRemoteScenario(t *testing.T) {
	t.Parallel()

	// a remote job whose salary.min is 90000 must not appear in 100k-150k
	got := Refilter(fixtureJobs(), domain.FilterSpec{SalaryBucket: "100k-150k", RemoteMode: "remote"})
	assert.Equal(t, []string{"Frontend Engineer"}, positions(got))
}

func TestRefilter_InactiveSpecReturnsCopy(t *testing.T) {
	t.Parallel()

	jobs := fixtureJobs()[:2:4]
	got := Refilter(jobs, domain.FilterSpec{})
	require.Len(t, got, 2)

	got[0].Position = "changed"
	_ = append(got, domain.Job{Position: "extra"})
	assert.Equal(t, "Frontend Engineer", jobs[0].Position)

	full := jobs[:3]
	assert.Equal(t, "Lab Assistant", full[2].Position)
}

func TestRemoteModesAreMutuallyExclusive(t *testing.T) {
	t.Parallel()

	for _, j := range fixtureJobs() {
		hits := 0
		for _, mode := range []string{domain.RemoteModeRemote, domain.RemoteModeHybrid, domain.RemoteModeOnsite} {
			if Matches(j, domain.FilterSpec{RemoteMode: mode}) {
				hits++
			}
		}
		assert.Equal(t, 1, hits, j.Position)
	}
}

func TestMatches_EveryResultSatisfiesEveryPredicate(t *testing.T) {
	t.Parallel()

	spec := domain.FilterSpec{Type: "full-time", RemoteMode: "remote", SalaryBucket: "75k-100k"}
	for _, j := range Refilter(fixtureJobs(), spec) {
		for _, p := range Predicates(spec) {
			assert.True(t, p(j), j.Position)
		}
	}
}
