package job

import (
	"net/url"
	"strings"
	"time"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

var employmentTypes = map[string]bool{
	"full-time":  true,
	"part-time":  true,
	"contract":   true,
	"internship": true,
	"temporary":  true,
	"volunteer":  true,
}

var experienceTiers = map[string]bool{
	"entry":     true,
	"mid":       true,
	"senior":    true,
	"lead":      true,
	"executive": true,
}

// normalizeInput trims free text and lower-cases enumerated fields
func normalizeInput(in domain.JobInput) domain.JobInput {
	in.Company = strings.TrimSpace(in.Company)
	in.Position = strings.TrimSpace(in.Position)
	in.Location = strings.TrimSpace(in.Location)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Experience = strings.ToLower(strings.TrimSpace(in.Experience))
	in.Industry = strings.TrimSpace(in.Industry)
	in.ApplyURL = strings.TrimSpace(in.ApplyURL)
	in.Requirements = compact(in.Requirements)
	in.Benefits = compact(in.Benefits)
	in.Tags = compact(in.Tags)
	return in
}

func compact(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ValidateInput checks a normalized job input
func ValidateInput(in domain.JobInput, now time.Time) error {
	verr := domain.NewValidationError()

	if in.Company == "" {
		verr.Add("company", "is required")
	}
	if in.Position == "" {
		verr.Add("position", "is required")
	}
	if in.Location == "" {
		verr.Add("location", "is required")
	}
	switch {
	case in.Type == "":
		verr.Add("type", "is required")
	case !employmentTypes[in.Type]:
		verr.Add("type", "unknown employment type "+in.Type)
	}
	if in.Experience != "" && !experienceTiers[in.Experience] {
		verr.Add("experience", "unknown experience tier "+in.Experience)
	}
	if s := in.Salary; s != nil {
		if s.Min < 0 {
			verr.Add("salary.min", "must not be negative")
		}
		if s.Max != 0 && s.Max < s.Min {
			verr.Add("salary.max", "must not be below salary.min")
		}
	}
	if in.Vacancies != nil && *in.Vacancies < 1 {
		verr.Add("numberOfVacancies", "must be at least 1")
	}
	if in.Deadline != nil && in.Deadline.Before(now) {
		verr.Add("applicationDeadline", "must not be in the past")
	}
	if in.ApplyURL != "" {
		if u, err := url.Parse(in.ApplyURL); err != nil || u.Scheme == "" || u.Host == "" {
			verr.Add("applyUrl", "must be an absolute URL")
		}
	}

	return verr.OrNil()
}
