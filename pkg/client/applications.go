package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
)

// SubmitRequest mirrors the apply form
type SubmitRequest struct {
	Contact    domain.Contact    `json:"contact"`
	Skills     []string          `json:"skills"`
	Experience string            `json:"experience"`
	Message    string            `json:"message,omitempty"`
	Resume     *domain.ResumeRef `json:"resume,omitempty"`
}

// Stats is the per-status tally of a job's applications
type Stats struct {
	Applied     int `json:"applied"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Hired       int `json:"hired"`
	Total       int `json:"total"`
}

func (c *Client) SubmitApplication(ctx context.Context, jobID domain.JobID, req SubmitRequest) (domain.Application, error) {
	var app domain.Application
	err := c.do(ctx, http.MethodPost, "/api/jobs/"+jobID.String()+"/applications", nil, req, &app)
	return app, err
}

func (c *Client) ReviewApplication(ctx context.Context, id domain.ApplicationID, status domain.Status, notes string) (domain.Application, error) {
	body := struct {
		Status domain.Status `json:"status"`
		Notes  string        `json:"reviewNotes,omitempty"`
	}{Status: status, Notes: notes}

	var app domain.Application
	err := c.do(ctx, http.MethodPatch, "/api/applications/"+id.String()+"/status", nil, body, &app)
	return app, err
}

func (c *Client) DeleteApplication(ctx context.Context, id domain.ApplicationID) error {
	return c.do(ctx, http.MethodDelete, "/api/applications/"+id.String(), nil, nil, nil)
}

func (c *Client) JobApplications(ctx context.Context, jobID domain.JobID) ([]domain.Application, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/api/jobs/"+jobID.String()+"/applications", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeApplications(raw)
}

func (c *Client) ApplicationStats(ctx context.Context, jobID domain.JobID) (Stats, error) {
	var s Stats
	err := c.do(ctx, http.MethodGet, "/api/jobs/"+jobID.String()+"/applications/stats", nil, nil, &s)
	return s, err
}

// MyApplications lists the actor's own applications, newest first
func (c *Client) MyApplications(ctx context.Context, limit int) ([]domain.Application, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	raw, err := c.doRaw(ctx, http.MethodGet, "/api/applications/me", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeApplications(raw)
}

// ListAppliedJobIDs returns the ids of jobs the actor applied to
func (c *Client) ListAppliedJobIDs(ctx context.Context, limit int) ([]domain.JobID, error) {
	apps, err := c.MyApplications(ctx, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]domain.JobID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.JobID)
	}
	return ids, nil
}

// decodeApplications accepts a bare array or {"applications": [...]}
func decodeApplications(raw []byte) ([]domain.Application, error) {
	trimmed := bytes.TrimSpace(raw)
	var apps []domain.Application

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var w struct {
			Applications []domain.Application `json:"applications"`
			Data         []domain.Application `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return nil, fmt.Errorf("client: decode applications: %w", err)
		}
		apps = w.Applications
		if apps == nil {
			apps = w.Data
		}
	} else if err := json.Unmarshal(trimmed, &apps); err != nil {
		return nil, fmt.Errorf("client: decode applications: %w", err)
	}

	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}
