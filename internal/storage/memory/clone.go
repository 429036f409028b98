package memory

import (
	"slices"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

func cloneJob(j domain.Job) domain.Job {
	out := j
	if j.Salary != nil {
		s := *j.Salary
		out.Salary = &s
	}
	if j.Vacancies != nil {
		v := *j.Vacancies
		out.Vacancies = &v
	}
	if j.Deadline != nil {
		d := *j.Deadline
		out.Deadline = &d
	}
	out.Requirements = slices.Clone(j.Requirements)
	out.Benefits = slices.Clone(j.Benefits)
	out.Tags = slices.Clone(j.Tags)
	return out
}

func cloneApplication(a domain.Application) domain.Application {
	out := a
	out.Skills = slices.Clone(a.Skills)
	if a.Resume != nil {
		r := *a.Resume
		out.Resume = &r
	}
	if a.Review.ReviewedAt != nil {
		t := *a.Review.ReviewedAt
		out.Review.ReviewedAt = &t
	}
	return out
}
