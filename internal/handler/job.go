package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form"
	"github.com/rs/zerolog"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/payload"
	"github.com/prasertsakk/job-portal-api/internal/usecase"
	"github.com/prasertsakk/job-portal-api/shared/validation"
)

// JobHandler serves job postings: the public browse surface and the
// employer-side CRUD operations.
type JobHandler struct {
	jobUsecase  usecase.JobUsecase
	validator   *validation.Validator
	formDecoder *form.Decoder
	logger      *zerolog.Logger
}

func NewJobHandler(
	jobUsecase usecase.JobUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *JobHandler {
	return &JobHandler{
		jobUsecase:  jobUsecase,
		validator:   validator,
		formDecoder: form.NewDecoder(),
		logger:      logger,
	}
}

func (h *JobHandler) Browse(w http.ResponseWriter, r *http.Request) {
	var query payload.BrowseJobsQuery
	if err := h.formDecoder.Decode(&query, r.URL.Query()); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	result, err := h.jobUsecase.Browse(r.Context(), usecase.BrowseJobsParams{
		Keyword:   query.Keyword,
		Location:  query.Location,
		Type:      query.Type,
		MinSalary: query.MinSalary,
		MaxSalary: query.MaxSalary,
		Page:      query.Page,
		Limit:     query.Limit,
	})
	if err != nil {
		h.writeJobError(w, err, "failed to browse jobs")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.BrowseJobsResponse{
		Jobs:       result.Jobs,
		Pagination: result.Pagination,
	})
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	var principal *model.Principal
	if p, ok := PrincipalFromContext(r.Context()); ok {
		principal = &p
	}

	job, err := h.jobUsecase.GetJob(r.Context(), chi.URLParam(r, "id"), principal)
	if err != nil {
		if errors.Is(err, usecase.ErrJobNotFound) {
			writeError(h.logger, w, http.StatusNotFound, "job not found")
			return
		}
		writeInternalError(h.logger, w, err, "failed to get job")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.JobResponse{Job: job})
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req payload.CreateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	job, err := h.jobUsecase.CreateJob(r.Context(), principal, usecase.CreateJobParams{
		Title:              req.Title,
		Description:        req.Description,
		Location:           req.Location,
		Type:               model.JobType(req.Type),
		SalaryMin:          req.SalaryMin,
		SalaryMax:          req.SalaryMax,
		RequiredSkills:     req.RequiredSkills,
		RequiredExperience: req.RequiredExperience,
		IsRemote:           req.IsRemote,
	})
	if err != nil {
		h.writeJobError(w, err, "failed to create job")
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, payload.JobResponse{Message: "job created", Job: job})
}

func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req payload.UpdateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	params := usecase.UpdateJobParams{
		Title:              req.Title,
		Description:        req.Description,
		Location:           req.Location,
		SalaryMin:          req.SalaryMin,
		SalaryMax:          req.SalaryMax,
		RequiredSkills:     req.RequiredSkills,
		RequiredExperience: req.RequiredExperience,
		IsRemote:           req.IsRemote,
	}
	if req.Type != nil {
		jobType := model.JobType(*req.Type)
		params.Type = &jobType
	}
	if req.Status != nil {
		status := model.JobStatus(*req.Status)
		params.Status = &status
	}

	job, err := h.jobUsecase.UpdateJob(r.Context(), chi.URLParam(r, "id"), principal, params)
	if err != nil {
		h.writeJobError(w, err, "failed to update job")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.JobResponse{Message: "job updated", Job: job})
}

func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.jobUsecase.DeleteJob(r.Context(), chi.URLParam(r, "id"), principal); err != nil {
		h.writeJobError(w, err, "failed to delete job")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.JobResponse{Message: "job deleted"})
}

func (h *JobHandler) ListMyJobs(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	jobs, err := h.jobUsecase.ListMyJobs(r.Context(), principal)
	if err != nil {
		h.writeJobError(w, err, "failed to list jobs")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.JobListResponse{Jobs: jobs})
}

func (h *JobHandler) SearchSeekers(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var query payload.SearchSeekersQuery
	if err := h.formDecoder.Decode(&query, r.URL.Query()); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	seekers, err := h.jobUsecase.SearchSeekers(r.Context(), principal, usecase.SearchSeekersParams{
		Skills:  query.Skills,
		City:    query.City,
		Country: query.Country,
	})
	if err != nil {
		h.writeJobError(w, err, "failed to search job seekers")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.SeekerListResponse{JobSeekers: seekers})
}

func (h *JobHandler) writeJobError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		writeError(h.logger, w, http.StatusNotFound, "job not found")
	case errors.Is(err, usecase.ErrNotEmployer):
		writeError(h.logger, w, http.StatusForbidden, "only employers may perform this action")
	case errors.Is(err, usecase.ErrNotJobOwner):
		writeError(h.logger, w, http.StatusForbidden, "job belongs to another employer")
	case errors.Is(err, usecase.ErrInvalidJobType):
		writeError(h.logger, w, http.StatusBadRequest, "invalid job type")
	default:
		writeInternalError(h.logger, w, err, logMsg)
	}
}
