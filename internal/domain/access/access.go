// Package access evaluates role capabilities and resource ownership.
// Effective permission is always blanket capability OR direct ownership,
// evaluated the same way for jobs and applications.
package access

import (
	"fmt"
	"strings"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// Role is the closed set of platform roles
type Role int

const (
	UnknownRole Role = iota
	SuperAdmin
	CollegeAdmin
	HOD
	Staff
	Alumni
)

var roleNames = map[Role]string{
	UnknownRole:  "unknown",
	SuperAdmin:   "super_admin",
	CollegeAdmin: "college_admin",
	HOD:          "hod",
	Staff:        "staff",
	Alumni:       "alumni",
}

// Roles lists every known role
var Roles = []Role{SuperAdmin, CollegeAdmin, HOD, Staff, Alumni}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return roleNames[UnknownRole]
}

// ParseRole maps an identity role string onto a Role; anything unrecognised
// becomes UnknownRole
func ParseRole(s string) Role {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "super_admin", "superadmin":
		return SuperAdmin
	case "college_admin", "collegeadmin", "admin":
		return CollegeAdmin
	case "hod":
		return HOD
	case "staff", "faculty":
		return Staff
	case "alumni", "alumnus":
		return Alumni
	}
	return UnknownRole
}

// Capability is a blanket, role-level permission
type Capability int

const (
	CreateJobs Capability = iota + 1
	EditAllJobs
	DeleteAllJobs
	ReviewAllApplications
)

func (c Capability) String() string {
	switch c {
	case CreateJobs:
		return "create_jobs"
	case EditAllJobs:
		return "edit_all_jobs"
	case DeleteAllJobs:
		return "delete_all_jobs"
	case ReviewAllApplications:
		return "review_all_applications"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

var roleCapabilities = map[Role][]Capability{
	SuperAdmin:   {CreateJobs, EditAllJobs, DeleteAllJobs, ReviewAllApplications},
	CollegeAdmin: {CreateJobs, EditAllJobs, DeleteAllJobs, ReviewAllApplications},
	HOD:          {CreateJobs},
	Staff:        {CreateJobs},
	Alumni:       {CreateJobs},
}

// Has reports whether the role holds capability c
func (r Role) Has(c Capability) bool {
	for _, have := range roleCapabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}

// Authorizer decides job and application permissions
type Authorizer struct{}

// NewAuthorizer returns the default capability-or-ownership authorizer
func NewAuthorizer() Authorizer {
	return Authorizer{}
}

func (Authorizer) allowed(actor domain.Actor, c Capability, owner domain.UserID) bool {
	if actor.UserID == "" {
		return false
	}
	return ParseRole(actor.Role).Has(c) || (owner != "" && owner == actor.UserID)
}

func forbidden(actor domain.Actor, action string) error {
	return fmt.Errorf("%w: user %q may not %s", domain.ErrForbidden, actor.UserID, action)
}

// CanCreateJob checks the CreateJobs capability
func (a Authorizer) CanCreateJob(actor domain.Actor) error {
	if !a.allowed(actor, CreateJobs, "") {
		return forbidden(actor, "create jobs")
	}
	return nil
}

// CanEditJob allows the poster or an EditAllJobs holder
func (a Authorizer) CanEditJob(actor domain.Actor, job domain.Job) error {
	if !a.allowed(actor, EditAllJobs, job.PostedBy.UserID) {
		return forbidden(actor, "edit job "+job.ID.String())
	}
	return nil
}

// CanDeleteJob allows the poster or a DeleteAllJobs holder
func (a Authorizer) CanDeleteJob(actor domain.Actor, job domain.Job) error {
	if !a.allowed(actor, DeleteAllJobs, job.PostedBy.UserID) {
		return forbidden(actor, "delete job "+job.ID.String())
	}
	return nil
}

// CanReview allows the poster of the job or a ReviewAllApplications holder
func (a Authorizer) CanReview(actor domain.Actor, job domain.Job) error {
	if !a.allowed(actor, ReviewAllApplications, job.PostedBy.UserID) {
		return forbidden(actor, "review applications for job "+job.ID.String())
	}
	return nil
}

// CanDeleteApplication allows the applicant (withdrawal) or any reviewer of the job
func (a Authorizer) CanDeleteApplication(actor domain.Actor, app domain.Application, job domain.Job) error {
	if actor.UserID != "" && app.ApplicantID == actor.UserID {
		return nil
	}
	if a.CanReview(actor, job) == nil {
		return nil
	}
	return forbidden(actor, "delete application "+app.ID.String())
}

// CanViewCandidate allows users to read their own applications and reviewers to read anyone's
func (a Authorizer) CanViewCandidate(actor domain.Actor, candidateID domain.UserID) error {
	if !a.allowed(actor, ReviewAllApplications, candidateID) {
		return forbidden(actor, "list applications of "+candidateID)
	}
	return nil
}
