package dashboard

import "github.com/honeycarbs/alumni-jobs/internal/domain"

// Stats counts applications per status
type Stats struct {
	Applied     int `json:"applied"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Hired       int `json:"hired"`
	Total       int `json:"total"`
}

// ComputeStats tallies apps in one pass
func ComputeStats(apps []domain.Application) Stats {
	var s Stats
	for _, a := range apps {
		s.Total++
		switch a.Status {
		case domain.StatusApplied:
			s.Applied++
		case domain.StatusShortlisted:
			s.Shortlisted++
		case domain.StatusRejected:
			s.Rejected++
		case domain.StatusHired:
			s.Hired++
		}
	}
	return s
}

// Count returns the tally for one status
func (s Stats) Count(status domain.Status) int {
	switch status {
	case domain.StatusApplied:
		return s.Applied
	case domain.StatusShortlisted:
		return s.Shortlisted
	case domain.StatusRejected:
		return s.Rejected
	case domain.StatusHired:
		return s.Hired
	}
	return 0
}
