package application

import (
	"fmt"
	"strings"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// TransitionPolicy decides which status changes a reviewer may make
type TransitionPolicy interface {
	Name() string
	Allow(from, to domain.Status) error
}

// Permissive lets any state move to any state
type Permissive struct{}

func (Permissive) Name() string { return "permissive" }

func (Permissive) Allow(_, _ domain.Status) error { return nil }

// RequireShortlistBeforeHire only hires candidates that were shortlisted first
type RequireShortlistBeforeHire struct{}

func (RequireShortlistBeforeHire) Name() string { return "strict" }

func (RequireShortlistBeforeHire) Allow(from, to domain.Status) error {
	if to != domain.StatusHired {
		return nil
	}
	if from == domain.StatusShortlisted || from == domain.StatusHired {
		return nil
	}
	return domain.FieldError("status", fmt.Sprintf("cannot move from %s to %s without shortlisting", from, to))
}

// ParsePolicy maps the configuration value onto a policy; empty means permissive
func ParsePolicy(name string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "permissive":
		return Permissive{}, nil
	case "strict", "require_shortlist":
		return RequireShortlistBeforeHire{}, nil
	default:
		return nil, fmt.Errorf("application: unknown transition policy %q", name)
	}
}
