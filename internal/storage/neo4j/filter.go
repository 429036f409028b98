package neo4j

import (
	"strings"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// jobFilter renders the WHERE clause for node j with the same meaning as
// job.Matches. Text comparisons lower-case both sides.
func jobFilter(tenant domain.TenantID, spec domain.FilterSpec) (string, map[string]any) {
	spec = spec.Normalize()
	clauses := []string{"j.tenantId = $tenantId"}
	params := map[string]any{"tenantId": tenant, "hybrid": domain.RemoteModeHybrid}

	if spec.SearchText != "" {
		params["text"] = strings.ToLower(spec.SearchText)
		clauses = append(clauses, "(toLower(j.position) CONTAINS $text OR toLower(j.company) CONTAINS $text"+
			" OR toLower(coalesce(j.description, '')) CONTAINS $text OR toLower(j.location) CONTAINS $text"+
			" OR any(tag IN coalesce(j.tags, []) WHERE toLower(tag) CONTAINS $text))")
	}

	if spec.Location != "" {
		switch strings.ToLower(spec.Location) {
		case domain.RemoteModeRemote:
			clauses = append(clauses, "j.remote = true")
		case domain.RemoteModeHybrid:
			clauses = append(clauses, "toLower(j.location) CONTAINS $hybrid")
		default:
			params["location"] = strings.ToLower(spec.Location)
			clauses = append(clauses, "toLower(j.location) CONTAINS $location")
		}
	}

	for _, f := range []struct{ prop, value string }{
		{"type", spec.Type},
		{"experience", spec.Experience},
		{"industry", spec.Industry},
	} {
		if f.value == "" {
			continue
		}
		params[f.prop] = strings.ToLower(f.value)
		clauses = append(clauses, "toLower(trim(coalesce(j."+f.prop+", ''))) = $"+f.prop)
	}

	if spec.SalaryBucket != "" {
		clauses = append(clauses, rangeClause("salaryMin", "salary", domain.SalaryBuckets, spec.SalaryBucket, params))
	}

	switch spec.RemoteMode {
	case "":
	case domain.RemoteModeRemote:
		clauses = append(clauses, "j.remote = true")
	case domain.RemoteModeHybrid:
		clauses = append(clauses, "j.remote = false AND toLower(j.location) CONTAINS $hybrid")
	case domain.RemoteModeOnsite:
		clauses = append(clauses, "j.remote = false AND NOT toLower(j.location) CONTAINS $hybrid")
	default:
		clauses = append(clauses, "false")
	}

	if spec.VacancyBucket != "" {
		clauses = append(clauses, rangeClause("vacancies", "vacancy", domain.VacancyBuckets, spec.VacancyBucket, params))
	}

	return strings.Join(clauses, " AND "), params
}

func rangeClause(prop, param string, buckets map[string]domain.Range, bucket string, params map[string]any) string {
	r, ok := buckets[bucket]
	if !ok {
		return "false"
	}
	params[param+"Floor"] = int64(r.Min)
	clause := "j." + prop + " IS NOT NULL AND j." + prop + " >= $" + param + "Floor"
	if r.Max >= 0 {
		params[param+"Ceil"] = int64(r.Max)
		clause += " AND j." + prop + " <= $" + param + "Ceil"
	}
	return "(" + clause + ")"
}
