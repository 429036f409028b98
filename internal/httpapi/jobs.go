package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/honeycarbs/alumni-jobs/internal/domain"
	"github.com/honeycarbs/alumni-jobs/internal/domain/job"
)

// SpecFromQuery reads a FilterSpec from list query parameters
func SpecFromQuery(q url.Values) (domain.FilterSpec, error) {
	spec := domain.FilterSpec{
		SearchText:    q.Get("search"),
		Location:      q.Get(string(domain.FacetLocation)),
		Type:          q.Get(string(domain.FacetType)),
		Experience:    q.Get(string(domain.FacetExperience)),
		Industry:      q.Get(string(domain.FacetIndustry)),
		SalaryBucket:  q.Get(string(domain.FacetSalary)),
		RemoteMode:    q.Get(string(domain.FacetRemoteMode)),
		VacancyBucket: q.Get(string(domain.FacetVacancy)),
	}

	verr := domain.NewValidationError()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			verr.Add("page", "must be an integer")
		}
		spec.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			verr.Add("limit", "must be an integer")
		}
		spec.PageSize = n
	}
	return spec, verr.OrNil()
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.FieldError(name, "must be a UUID")
	}
	return id, nil
}

func (a *API) listJobs(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	spec, err := SpecFromQuery(r.URL.Query())
	if err != nil {
		return err
	}
	res, err := a.jobs.ListJobs(r.Context(), actor, spec)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (a *API) createJob(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	var in domain.JobInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	j, err := a.jobs.CreateJob(r.Context(), actor, in)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, j)
	return nil
}

func (a *API) getJob(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	j, err := a.jobs.GetJob(r.Context(), actor, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, j)
	return nil
}

func (a *API) updateJob(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	var in domain.JobInput
	if err := decodeBody(r, &in); err != nil {
		return err
	}
	j, err := a.jobs.UpdateJob(r.Context(), actor, id, in)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, j)
	return nil
}

func (a *API) deleteJob(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	if err := a.jobs.DeleteJob(r.Context(), actor, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type savedJobsResponse struct {
	JobIDs []domain.JobID `json:"jobIds"`
}

func (a *API) savedJobs(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	ids, err := a.jobs.SavedJobIDs(r.Context(), actor)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []domain.JobID{}
	}
	writeJSON(w, http.StatusOK, savedJobsResponse{JobIDs: ids})
	return nil
}

func (a *API) saveJob(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	if err := a.jobs.SaveJob(r.Context(), actor, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *API) unsaveJob(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	id, err := pathUUID(r, "id")
	if err != nil {
		return err
	}
	if err := a.jobs.UnsaveJob(r.Context(), actor, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ImportRequest is the body of POST /api/jobs/import
type ImportRequest struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"`
	Remote   *bool  `json:"remote,omitempty"`
}

func (a *API) importJobs(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	var req ImportRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	res, err := a.jobs.ImportJobs(r.Context(), actor, job.ImportQuery{
		Query:    strings.TrimSpace(req.Query),
		Location: strings.TrimSpace(req.Location),
		Remote:   req.Remote,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}
