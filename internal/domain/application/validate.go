package application

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

const (
	minExperienceLen = 10
	minNameLen       = 2
	minPhoneLen      = 10
	maxMessageLen    = 1000

	// MaxResumeBytes caps résumé uploads at 5 MiB
	MaxResumeBytes = 5 << 20
)

var resumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// SubmitPayload is what a candidate enters in the apply form
type SubmitPayload struct {
	Contact    domain.Contact    `json:"contact"`
	Skills     []string          `json:"skills"`
	Experience string            `json:"experience"`
	Message    string            `json:"message,omitempty"`
	Resume     *domain.ResumeRef `json:"resume,omitempty"`
}

func normalizePayload(p SubmitPayload) SubmitPayload {
	p.Contact.Name = strings.TrimSpace(p.Contact.Name)
	p.Contact.Email = strings.TrimSpace(p.Contact.Email)
	p.Contact.Phone = strings.TrimSpace(p.Contact.Phone)
	p.Experience = strings.TrimSpace(p.Experience)
	p.Message = strings.TrimSpace(p.Message)

	skills := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	p.Skills = skills
	return p
}

// ValidatePayload checks a normalized payload. Résumé problems are reported
// as an UploadError ahead of any field errors.
func ValidatePayload(p SubmitPayload) error {
	if err := ValidateResume(p.Resume); err != nil {
		return err
	}

	verr := domain.NewValidationError()
	if len(p.Skills) == 0 {
		verr.Add("skills", "at least one skill is required")
	}
	if utf8.RuneCountInString(p.Experience) < minExperienceLen {
		verr.Add("experience", "must be at least 10 characters")
	}
	if utf8.RuneCountInString(p.Contact.Name) < minNameLen {
		verr.Add("contact.name", "must be at least 2 characters")
	}
	if !validEmail(p.Contact.Email) {
		verr.Add("contact.email", "must be a valid email address")
	}
	if utf8.RuneCountInString(p.Contact.Phone) < minPhoneLen {
		verr.Add("contact.phone", "must be at least 10 characters")
	}
	if utf8.RuneCountInString(p.Message) > maxMessageLen {
		verr.Add("message", "must be at most 1000 characters")
	}
	return verr.OrNil()
}

// ValidateResume checks résumé metadata before it is accepted; nil is allowed
func ValidateResume(r *domain.ResumeRef) error {
	if r == nil {
		return nil
	}
	if r.SizeBytes <= 0 || r.SizeBytes > MaxResumeBytes {
		return &domain.UploadError{Reason: "resume must be between 1 byte and 5 MiB"}
	}
	if !resumeTypes[strings.ToLower(strings.TrimSpace(r.MIMEType))] {
		return &domain.UploadError{Reason: "resume must be a PDF, DOC or DOCX file"}
	}
	if strings.TrimSpace(r.Ref) == "" {
		return &domain.UploadError{Reason: "resume reference is missing"}
	}
	return nil
}

func validEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}
