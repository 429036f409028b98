package adzuna

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultBaseURL    = "https://api.adzuna.com"
	defaultCountry    = "us"
	defaultPageSize   = 20
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
	maxErrorBody      = 4096
)

// NewClient instantiates an Adzuna API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna: app_id and app_key are required")
	}

	if cfg.Country == "" {
		cfg.Country = defaultCountry
	}
	cfg.Country = strings.ToLower(cfg.Country)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("adzuna: parse base url: %w", err)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Client{cfg: cfg, now: time.Now}, nil
}

// SearchJobs fetches one page of postings. Throttling and server errors are
// retried; postings without an id are dropped.
func (c *Client) SearchJobs(ctx context.Context, query string, params SearchParams) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("adzuna: client is nil")
	}

	u, err := c.searchURL(query, params)
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	err = retry.Do(
		func() error {
			payload = searchResponse{}
			return c.fetch(ctx, u, &payload)
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.Attempts),
		retry.Delay(c.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	if err != nil {
		return nil, err
	}

	fetched := c.now().UTC()
	jobs := make([]Job, 0, len(payload.Results))
	for _, p := range payload.Results {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		jobs = append(jobs, normalize(p, fetched))
	}
	return jobs, nil
}

func retryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) fetch(ctx context.Context, u string, out *searchResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("adzuna: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("adzuna: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("adzuna: decode response: %w", err))
	}
	return nil
}

func (c *Client) searchURL(query string, params SearchParams) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("adzuna: query is required")
	}

	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("adzuna: parse base url: %w", err)
	}

	page := max(params.Page, 1)
	u.Path = path.Join(u.Path, "v1", "api", "jobs", c.cfg.Country, "search", strconv.Itoa(page))

	values := url.Values{}
	values.Set("app_id", c.cfg.AppID)
	values.Set("app_key", c.cfg.AppKey)
	values.Set("what", query)
	values.Set("results_per_page", strconv.Itoa(c.cfg.PageSize))
	values.Set("content-type", "application/json")

	if loc := strings.TrimSpace(params.Location); loc != "" {
		values.Set("where", loc)
	}
	if params.Remote != nil && *params.Remote {
		values.Set("what_and", "remote")
	}
	if params.MaxDaysOld > 0 {
		values.Set("max_days_old", strconv.Itoa(params.MaxDaysOld))
	}
	if params.SortBy != "" {
		values.Set("sort_by", params.SortBy)
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}

func normalize(p posting, fetched time.Time) Job {
	job := Job{
		ID:              strings.TrimSpace(p.ID),
		Title:           strings.TrimSpace(p.Title),
		CompanyName:     strings.TrimSpace(p.Company.DisplayName),
		Location:        strings.TrimSpace(p.Location.DisplayName),
		URL:             p.RedirectURL,
		Description:     strings.TrimSpace(p.Description),
		Category:        p.Category.Label,
		FetchedAt:       fetched,
		SalaryMin:       p.SalaryMin,
		SalaryMax:       p.SalaryMax,
		SalaryEstimated: p.SalaryIsPredicted == "1",
		ContractTime:    p.ContractTim,
		ContractType:    p.ContractTyp,
	}

	if ts, err := time.Parse(time.RFC3339, p.Created); err == nil {
		job.PostedAt = ts.UTC()
	}

	text := strings.ToLower(job.Location + " " + job.Title)
	job.Remote = strings.EqualFold(p.ContractTim, "remote") || strings.Contains(text, "remote")
	return job
}
