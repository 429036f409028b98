package domain

import (
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// FacetAll is the inactive value of every facet
	FacetAll = "all"
)

// Facet names one independent filter dimension
type Facet string

const (
	FacetLocation   Facet = "location"
	FacetType       Facet = "type"
	FacetExperience Facet = "experience"
	FacetIndustry   Facet = "industry"
	FacetSalary     Facet = "salary"
	FacetRemoteMode Facet = "remote"
	FacetVacancy    Facet = "vacancies"
)

// Facets lists every facet in query-string order
var Facets = []Facet{FacetLocation, FacetType, FacetExperience, FacetIndustry, FacetSalary, FacetRemoteMode, FacetVacancy}

const (
	RemoteModeRemote = "remote"
	RemoteModeHybrid = "hybrid"
	RemoteModeOnsite = "onsite"
)

// Range is an inclusive integer range; Max < 0 means unbounded
type Range struct {
	Min int
	Max int
}

// Contains reports whether v falls inside the range
func (r Range) Contains(v int) bool {
	if v < r.Min {
		return false
	}
	return r.Max < 0 || v <= r.Max
}

// SalaryBuckets maps a salary facet value to the range compared against Salary.Min
var SalaryBuckets = map[string]Range{
	"0-50k":     {Min: 0, Max: 50000},
	"50k-75k":   {Min: 50000, Max: 75000},
	"75k-100k":  {Min: 75000, Max: 100000},
	"100k-150k": {Min: 100000, Max: 150000},
	"150k+":     {Min: 150000, Max: -1},
}

// VacancyBuckets maps a vacancy facet value to the range compared against Vacancies
var VacancyBuckets = map[string]Range{
	"1":    {Min: 1, Max: 1},
	"2-5":  {Min: 2, Max: 5},
	"6-10": {Min: 6, Max: 10},
	"10+":  {Min: 11, Max: -1},
}

// FilterSpec is an immutable snapshot of the catalog query.
// It is passed by value; every With* helper returns a copy, and all of them
// except WithPage reset the page to 1.
type FilterSpec struct {
	SearchText    string `json:"search,omitempty"`
	Location      string `json:"location,omitempty"`
	Type          string `json:"type,omitempty"`
	Experience    string `json:"experience,omitempty"`
	Industry      string `json:"industry,omitempty"`
	SalaryBucket  string `json:"salary,omitempty"`
	RemoteMode    string `json:"remote,omitempty"`
	VacancyBucket string `json:"vacancies,omitempty"`
	Page          int    `json:"page,omitempty"`
	PageSize      int    `json:"limit,omitempty"`
}

// Active reports whether a facet value narrows the result set
func Active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, FacetAll)
}

// Value returns the raw value of a facet
func (f FilterSpec) Value(facet Facet) string {
	switch facet {
	case FacetLocation:
		return f.Location
	case FacetType:
		return f.Type
	case FacetExperience:
		return f.Experience
	case FacetIndustry:
		return f.Industry
	case FacetSalary:
		return f.SalaryBucket
	case FacetRemoteMode:
		return f.RemoteMode
	case FacetVacancy:
		return f.VacancyBucket
	}
	return ""
}

// WithFacet returns a copy with facet set to value and the page reset
func (f FilterSpec) WithFacet(facet Facet, value string) FilterSpec {
	switch facet {
	case FacetLocation:
		f.Location = value
	case FacetType:
		f.Type = value
	case FacetExperience:
		f.Experience = value
	case FacetIndustry:
		f.Industry = value
	case FacetSalary:
		f.SalaryBucket = value
	case FacetRemoteMode:
		f.RemoteMode = value
	case FacetVacancy:
		f.VacancyBucket = value
	}
	f.Page = 1
	return f
}

// WithSearchText returns a copy with new search text and the page reset
func (f FilterSpec) WithSearchText(text string) FilterSpec {
	f.SearchText = text
	f.Page = 1
	return f
}

// WithPageSize returns a copy with a new page size and the page reset
func (f FilterSpec) WithPageSize(size int) FilterSpec {
	f.PageSize = size
	f.Page = 1
	return f
}

// WithPage returns a copy pointing at another page of the same result set
func (f FilterSpec) WithPage(page int) FilterSpec {
	f.Page = page
	return f
}

// Cleared returns a copy with every facet and the search text reset
func (f FilterSpec) Cleared() FilterSpec {
	return FilterSpec{Page: 1, PageSize: f.PageSize}
}

// SameQuery reports whether two specs select the same result set,
// ignoring which page is requested
func (f FilterSpec) SameQuery(o FilterSpec) bool {
	f.Page, o.Page = 0, 0
	return f.Normalize() == o.Normalize()
}

// Normalize trims values, folds "all" to empty and clamps paging
func (f FilterSpec) Normalize() FilterSpec {
	norm := func(v string) string {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, FacetAll) {
			return ""
		}
		return v
	}
	f.SearchText = strings.TrimSpace(f.SearchText)
	f.Location = norm(f.Location)
	f.Type = strings.ToLower(norm(f.Type))
	f.Experience = strings.ToLower(norm(f.Experience))
	f.Industry = norm(f.Industry)
	f.SalaryBucket = strings.ToLower(norm(f.SalaryBucket))
	f.RemoteMode = strings.ToLower(norm(f.RemoteMode))
	f.VacancyBucket = strings.ToLower(norm(f.VacancyBucket))

	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize <= 0:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	return f
}

// Validate rejects unknown bucket and mode names
func (f FilterSpec) Validate() error {
	n := f.Normalize()
	verr := NewValidationError()

	if n.SalaryBucket != "" {
		if _, ok := SalaryBuckets[n.SalaryBucket]; !ok {
			verr.Add(string(FacetSalary), fmt.Sprintf("unknown salary bucket %q", f.SalaryBucket))
		}
	}
	if n.VacancyBucket != "" {
		if _, ok := VacancyBuckets[n.VacancyBucket]; !ok {
			verr.Add(string(FacetVacancy), fmt.Sprintf("unknown vacancy bucket %q", f.VacancyBucket))
		}
	}
	switch n.RemoteMode {
	case "", RemoteModeRemote, RemoteModeHybrid, RemoteModeOnsite:
	default:
		verr.Add(string(FacetRemoteMode), fmt.Sprintf("unknown remote mode %q", f.RemoteMode))
	}

	return verr.OrNil()
}
