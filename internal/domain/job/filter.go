package job

import (
	"slices"
	"strings"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// Predicate reports whether a job satisfies one facet
type Predicate func(j domain.Job) bool

// Predicates composes the active facets of spec. Inactive facets contribute
// nothing, so an empty spec yields no predicates and matches every job.
// Callers are expected to have validated the FilterSpec; unknown bucket names
// match nothing.
func Predicates(spec domain.FilterSpec) []Predicate {
	spec = spec.Normalize()
	var preds []Predicate

	if spec.SearchText != "" {
		preds = append(preds, textPredicate(spec.SearchText))
	}
	if spec.Location != "" {
		preds = append(preds, locationPredicate(spec.Location))
	}
	if spec.Type != "" {
		preds = append(preds, exactPredicate(spec.Type, func(j domain.Job) string { return j.Type }))
	}
	if spec.Experience != "" {
		preds = append(preds, exactPredicate(spec.Experience, func(j domain.Job) string { return j.Experience }))
	}
	if spec.Industry != "" {
		preds = append(preds, exactPredicate(spec.Industry, func(j domain.Job) string { return j.Industry }))
	}
	if spec.SalaryBucket != "" {
		preds = append(preds, salaryPredicate(spec.SalaryBucket))
	}
	if spec.RemoteMode != "" {
		preds = append(preds, remoteModePredicate(spec.RemoteMode))
	}
	if spec.VacancyBucket != "" {
		preds = append(preds, vacancyPredicate(spec.VacancyBucket))
	}

	return preds
}

// Matches reports whether j satisfies every active facet of spec
func Matches(j domain.Job, spec domain.FilterSpec) bool {
	for _, p := range Predicates(spec) {
		if !p(j) {
			return false
		}
	}
	return true
}

// Refilter re-applies spec to an already-fetched page. It shares Matches
// with the server-side query so both passes agree.
func Refilter(jobs []domain.Job, spec domain.FilterSpec) []domain.Job {
	preds := Predicates(spec)
	if len(preds) == 0 {
		return slices.Clone(jobs)
	}

	filtered := make([]domain.Job, 0, len(jobs))
outer:
	for _, j := range jobs {
		for _, p := range preds {
			if !p(j) {
				continue outer
			}
		}
		filtered = append(filtered, j)
	}
	return filtered
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// IsHybrid reports whether the location string advertises hybrid work
func IsHybrid(j domain.Job) bool {
	return containsFold(j.Location, domain.RemoteModeHybrid)
}

func textPredicate(text string) Predicate {
	return func(j domain.Job) bool {
		if containsFold(j.Position, text) ||
			containsFold(j.Company, text) ||
			containsFold(j.Description, text) ||
			containsFold(j.Location, text) {
			return true
		}
		for _, tag := range j.Tags {
			if containsFold(tag, text) {
				return true
			}
		}
		return false
	}
}

func locationPredicate(location string) Predicate {
	switch strings.ToLower(location) {
	case domain.RemoteModeRemote:
		return func(j domain.Job) bool { return j.Remote }
	case domain.RemoteModeHybrid:
		return IsHybrid
	}
	return func(j domain.Job) bool { return containsFold(j.Location, location) }
}

func exactPredicate(want string, field func(domain.Job) string) Predicate {
	return func(j domain.Job) bool {
		return strings.EqualFold(strings.TrimSpace(field(j)), want)
	}
}

func remoteModePredicate(mode string) Predicate {
	switch mode {
	case domain.RemoteModeRemote:
		return func(j domain.Job) bool { return j.Remote }
	case domain.RemoteModeHybrid:
		return func(j domain.Job) bool { return !j.Remote && IsHybrid(j) }
	case domain.RemoteModeOnsite:
		return func(j domain.Job) bool { return !j.Remote && !IsHybrid(j) }
	}
	return func(domain.Job) bool { return false }
}

func salaryPredicate(bucket string) Predicate {
	r, ok := domain.SalaryBuckets[bucket]
	return func(j domain.Job) bool {
		return ok && j.Salary != nil && r.Contains(j.Salary.Min)
	}
}

func vacancyPredicate(bucket string) Predicate {
	r, ok := domain.VacancyBuckets[bucket]
	return func(j domain.Job) bool {
		return ok && j.Vacancies != nil && r.Contains(*j.Vacancies)
	}
}
