package adzuna

import (
	"fmt"
	"net/http"
	"time"
)

// Config defines Adzuna API client settings
type Config struct {
	AppID      string
	AppKey     string
	Country    string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int

	// Attempts bounds retries of throttled or failed upstream calls
	Attempts   uint
	RetryDelay time.Duration
}

// Client queries the Adzuna search endpoint
type Client struct {
	cfg Config
	now func() time.Time
}

// SearchParams narrow one search page
type SearchParams struct {
	Location string
	// Remote adds "remote" as a mandatory keyword; Adzuna has no remote facet
	Remote     *bool
	Page       int
	MaxDaysOld int
	// SortBy is "date", "salary" or "relevance"
	SortBy string
}

// APIError is a non-2xx answer from Adzuna
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("adzuna: API error (%d): %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying may help
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type searchResponse struct {
	Count   int       `json:"count"`
	Results []posting `json:"results"`
}

type posting struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Created     string  `json:"created"`
	RedirectURL string  `json:"redirect_url"`
	ContractTim string  `json:"contract_time"`
	ContractTyp string  `json:"contract_type"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	// SalaryIsPredicted is "1" when Adzuna estimated the range
	SalaryIsPredicted string `json:"salary_is_predicted"`

	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string   `json:"display_name"`
		Area        []string `json:"area"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
	} `json:"category"`
}

// Job is one normalized Adzuna posting
type Job struct {
	ID          string
	Title       string
	CompanyName string
	Location    string
	URL         string
	Description string
	Remote      bool
	Category    string
	PostedAt    time.Time
	FetchedAt   time.Time

	SalaryMin float64
	SalaryMax float64
	// SalaryEstimated marks ranges Adzuna predicted rather than read from the ad
	SalaryEstimated bool

	// ContractTime is "full_time" or "part_time", ContractType "permanent" or "contract"
	ContractTime string
	ContractType string
}
