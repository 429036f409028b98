package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobID uniquely identifies a job
type JobID = uuid.UUID

// ApplicationID uniquely identifies an application
type ApplicationID = uuid.UUID

// UserID is the opaque user identifier supplied by the identity provider
type UserID = string

// TenantID scopes every record to one alumni network
type TenantID = string

// Salary is the advertised pay range of a job
type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency,omitempty"`
}

// Poster references the user who posted a job
type Poster struct {
	UserID UserID `json:"userId"`
	Name   string `json:"name"`
}

// Job is a posting in the marketplace
type Job struct {
	ID                JobID      `json:"id"`
	TenantID          TenantID   `json:"tenantId"`
	Company           string     `json:"company"`
	Position          string     `json:"position"`
	Location          string     `json:"location"`
	Type              string     `json:"type"`
	Experience        string     `json:"experience,omitempty"`
	Industry          string     `json:"industry,omitempty"`
	Remote            bool       `json:"remote"`
	Salary            *Salary    `json:"salary,omitempty"`
	Vacancies         *int       `json:"numberOfVacancies,omitempty"`
	Requirements      []string   `json:"requirements,omitempty"`
	Benefits          []string   `json:"benefits,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	Description       string     `json:"description,omitempty"`
	Deadline          *time.Time `json:"applicationDeadline,omitempty"`
	ApplyURL          string     `json:"applyUrl,omitempty"`
	ExternalID        string     `json:"externalId,omitempty"`
	PostedBy          Poster     `json:"postedBy"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	ApplicationsCount int        `json:"applicationsCount"`
}

// JobInput carries the mutable fields of a job for create and update
type JobInput struct {
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	Location     string     `json:"location"`
	Type         string     `json:"type"`
	Experience   string     `json:"experience,omitempty"`
	Industry     string     `json:"industry,omitempty"`
	Remote       bool       `json:"remote"`
	Salary       *Salary    `json:"salary,omitempty"`
	Vacancies    *int       `json:"numberOfVacancies,omitempty"`
	Requirements []string   `json:"requirements,omitempty"`
	Benefits     []string   `json:"benefits,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Description  string     `json:"description,omitempty"`
	Deadline     *time.Time `json:"applicationDeadline,omitempty"`
	ApplyURL     string     `json:"applyUrl,omitempty"`
}

// Apply copies the input onto a job, leaving identity and audit fields alone
func (in JobInput) Apply(j *Job) {
	j.Company = in.Company
	j.Position = in.Position
	j.Location = in.Location
	j.Type = in.Type
	j.Experience = in.Experience
	j.Industry = in.Industry
	j.Remote = in.Remote
	j.Salary = in.Salary
	j.Vacancies = in.Vacancies
	j.Requirements = in.Requirements
	j.Benefits = in.Benefits
	j.Tags = in.Tags
	j.Description = in.Description
	j.Deadline = in.Deadline
	j.ApplyURL = in.ApplyURL
}

// Status is the state of an application
type Status string

const (
	StatusApplied     Status = "Applied"
	StatusShortlisted Status = "Shortlisted"
	StatusRejected    Status = "Rejected"
	StatusHired       Status = "Hired"
)

// Statuses lists every application state in display order
var Statuses = []Status{StatusApplied, StatusShortlisted, StatusRejected, StatusHired}

// Valid reports whether s is one of the four application states
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusRejected, StatusHired:
		return true
	}
	return false
}

// Contact is the candidate-entered snapshot captured when applying.
// It is never joined back to the live profile.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ResumeRef is the opaque pointer returned by the file service plus the
// metadata validated before upload
type ResumeRef struct {
	Ref       string `json:"ref"`
	FileName  string `json:"fileName,omitempty"`
	SizeBytes int64  `json:"sizeBytes"`
	MIMEType  string `json:"mimeType"`
}

// Review is populated only by an authorized status change
type Review struct {
	ReviewedBy UserID     `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	Notes      string     `json:"reviewNotes,omitempty"`
}

// Empty reports whether no reviewer has acted yet
func (r Review) Empty() bool {
	return r.ReviewedBy == "" && r.ReviewedAt == nil && r.Notes == ""
}

// Application is a candidate's submission to a job
type Application struct {
	ID          ApplicationID `json:"id"`
	TenantID    TenantID      `json:"tenantId"`
	JobID       JobID         `json:"jobId"`
	ApplicantID UserID        `json:"applicantId"`
	Contact     Contact       `json:"contact"`
	Skills      []string      `json:"skills"`
	Experience  string        `json:"experience"`
	Message     string        `json:"message,omitempty"`
	Resume      *ResumeRef    `json:"resume,omitempty"`
	Status      Status        `json:"status"`
	AppliedAt   time.Time     `json:"appliedAt"`
	Review      Review        `json:"review"`
}

// Pagination describes one page of a list result
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes page counts for total matching records
func NewPagination(page, pageSize, total int) Pagination {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: pages}
}

// Offset is the zero-based index of the first record on the page
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// JobListResult is the canonical response of a job list query
type JobListResult struct {
	Jobs       []Job      `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}

// Actor is the identity collaborator's view of the current user
type Actor struct {
	UserID   UserID   `json:"user_id" jsonschema:"Current user identifier"`
	Name     string   `json:"name,omitempty" jsonschema:"Display name used when posting jobs"`
	Role     string   `json:"role" jsonschema:"One of super_admin, college_admin, hod, staff, alumni"`
	TenantID TenantID `json:"tenant_id" jsonschema:"Alumni network identifier"`
}
