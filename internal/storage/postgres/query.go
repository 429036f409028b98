package postgres

import (
	"fmt"
	"strings"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// where accumulates AND-ed clauses with positional arguments
type where struct {
	clauses []string
	args    []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) add(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(w.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// jobFilter translates a normalized spec into SQL with the same meaning as
// job.Matches, so the database and the in-memory refilter agree
func jobFilter(tenant domain.TenantID, spec domain.FilterSpec) *where {
	spec = spec.Normalize()
	w := &where{}
	w.add("tenant_id = " + w.arg(tenant))

	if spec.SearchText != "" {
		p := w.arg(containsPattern(spec.SearchText))
		w.add(fmt.Sprintf("(position ILIKE %[1]s OR company ILIKE %[1]s OR description ILIKE %[1]s"+
			" OR location ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE %[1]s))", p))
	}

	if spec.Location != "" {
		switch strings.ToLower(spec.Location) {
		case domain.RemoteModeRemote:
			w.add("remote")
		case domain.RemoteModeHybrid:
			w.add("location ILIKE " + w.arg(containsPattern(domain.RemoteModeHybrid)))
		default:
			w.add("location ILIKE " + w.arg(containsPattern(spec.Location)))
		}
	}

	exact := func(column, value string) {
		if value != "" {
			w.add(fmt.Sprintf("lower(btrim(%s)) = lower(%s)", column, w.arg(value)))
		}
	}
	exact("type", spec.Type)
	exact("experience", spec.Experience)
	exact("industry", spec.Industry)

	if spec.SalaryBucket != "" {
		addRange(w, "salary_min", domain.SalaryBuckets, spec.SalaryBucket)
	}

	switch spec.RemoteMode {
	case "":
	case domain.RemoteModeRemote:
		w.add("remote")
	case domain.RemoteModeHybrid:
		w.add("NOT remote AND location ILIKE " + w.arg(containsPattern(domain.RemoteModeHybrid)))
	case domain.RemoteModeOnsite:
		w.add("NOT remote AND location NOT ILIKE " + w.arg(containsPattern(domain.RemoteModeHybrid)))
	default:
		w.add("FALSE")
	}

	if spec.VacancyBucket != "" {
		addRange(w, "vacancies", domain.VacancyBuckets, spec.VacancyBucket)
	}

	return w
}

// addRange excludes NULL columns; an unknown bucket matches nothing
func addRange(w *where, column string, buckets map[string]domain.Range, bucket string) {
	r, ok := buckets[bucket]
	if !ok {
		w.add("FALSE")
		return
	}
	clause := fmt.Sprintf("%s IS NOT NULL AND %s >= %s", column, column, w.arg(r.Min))
	if r.Max >= 0 {
		clause += fmt.Sprintf(" AND %s <= %s", column, w.arg(r.Max))
	}
	w.add("(" + clause + ")")
}
