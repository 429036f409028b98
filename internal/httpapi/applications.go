package httpapi

import (
	"net/http"
	"strconv"

	"github.com/honeycarbs/alumni-jobs/internal/dashboard"
	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/access"
	"github.com/honeycarbs/alumni-jobs/internal/domain/application"
)

func (a *API) submitApplication(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	var p application.SubmitPayload
	if err := decodeBody(r, &p); err != nil {
		return err
	}
	app, err := a.apps.Submit(r.Context(), actor, jobID, p)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, app)
	return nil
}

func (a *API) jobApplications(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	apps, err := a.apps.ListForJob(r.Context(), actor, jobID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, apps)
	return nil
}

func (a *API) applicationStats(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	apps, err := a.apps.ListForJob(r.Context(), actor, jobID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, dashboard.ComputeStats(apps))
	return nil
}

func (a *API) myApplications(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	limit := application.DefaultCandidateLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return domain.FieldError("limit", "must be a positive integer")
		}
		limit = n
	}
	apps, err := a.apps.ListForCandidate(r.Context(), actor, actor.UserID, limit)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, apps)
	return nil
}

func (a *API) receivedApplications(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	res, err := a.agg.Received(r.Context(), actor)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

// ReviewRequest is the body of PATCH /api/applications/{id}/status
type ReviewRequest struct {
	Status domain.Status `json:"status"`
	Notes  string        `json:"reviewNotes,omitempty"`
}

func (a *API) reviewApplication(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	app, err := a.apps.Review(r.Context(), actor, id, req.Status, req.Notes)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, app)
	return nil
}

func (a *API) deleteApplication(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	if err := a.apps.Delete(r.Context(), actor, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type layoutResponse struct {
	Role   string            `json:"role"`
	Panels []dashboard.Panel `json:"panels"`
}

func (a *API) dashboardLayout(w http.ResponseWriter, _ *http.Request, actor domain.Actor) error {
	v := dashboard.ForRole(access.ParseRole(actor.Role))
	writeJSON(w, http.StatusOK, layoutResponse{Role: v.Role().String(), Panels: v.Panels()})
	return nil
}

func (a *API) candidateDashboard(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	q := r.URL.Query()
	res, err := a.agg.CandidateView(r.Context(), actor, dashboard.CandidateQuery{
		Search: q.Get("search"),
		Status: domain.Status(q.Get("status")),
		SortBy: q.Get("sortBy"),
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}
