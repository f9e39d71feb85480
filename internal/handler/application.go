package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/payload"
	"github.com/prasertsakk/job-portal-api/internal/usecase"
	"github.com/prasertsakk/job-portal-api/shared/validation"
)

// ApplicationHandler serves the application lifecycle: applying, withdrawing,
// listing and the employer-side status pipeline.
type ApplicationHandler struct {
	applicationUsecase usecase.ApplicationUsecase
	validator          *validation.Validator
	logger             *zerolog.Logger
}

func NewApplicationHandler(
	applicationUsecase usecase.ApplicationUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		applicationUsecase: applicationUsecase,
		validator:          validator,
		logger:             logger,
	}
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req payload.ApplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	application, err := h.applicationUsecase.Apply(r.Context(), chi.URLParam(r, "id"), principal.ID, usecase.ApplyParams{
		ResumeURL:   req.ResumeURL,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrJobNotFound):
			writeError(h.logger, w, http.StatusNotFound, "job not found")
		case errors.Is(err, usecase.ErrJobNotActive):
			writeError(h.logger, w, http.StatusConflict, "job is not accepting applications")
		case errors.Is(err, usecase.ErrAlreadyApplied):
			writeError(h.logger, w, http.StatusConflict, "you have already applied to this job")
		default:
			writeInternalError(h.logger, w, err, "failed to apply to job")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, payload.ApplicationResponse{
		Message:     "application submitted",
		Application: application,
	})
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	err := h.applicationUsecase.Withdraw(r.Context(), chi.URLParam(r, "id"), principal.ID)
	if err != nil {
		if errors.Is(err, usecase.ErrApplicationNotFound) {
			writeError(h.logger, w, http.StatusNotFound, "application not found")
			return
		}
		writeInternalError(h.logger, w, err, "failed to withdraw application")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.ApplicationResponse{Message: "application withdrawn"})
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	applications, err := h.applicationUsecase.ListMine(r.Context(), principal.ID)
	if err != nil {
		writeInternalError(h.logger, w, err, "failed to list applications")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.ApplicationListResponse{Applications: applications})
}

func (h *ApplicationHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	applications, err := h.applicationUsecase.ListForJob(r.Context(), chi.URLParam(r, "id"), principal)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrJobNotFound):
			writeError(h.logger, w, http.StatusNotFound, "job not found")
		case errors.Is(err, usecase.ErrNotEmployer):
			writeError(h.logger, w, http.StatusForbidden, "only employers may perform this action")
		case errors.Is(err, usecase.ErrNotJobOwner):
			writeError(h.logger, w, http.StatusForbidden, "job belongs to another employer")
		default:
			writeInternalError(h.logger, w, err, "failed to list job applications")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.JobApplicationListResponse{Applications: applications})
}

func (h *ApplicationHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req payload.AdvanceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	application, err := h.applicationUsecase.AdvanceStatus(r.Context(), chi.URLParam(r, "id"), principal, usecase.AdvanceStatusParams{
		Status: model.ApplicationStatus(req.Status),
		Notes:  req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrApplicationNotFound):
			writeError(h.logger, w, http.StatusNotFound, "application not found")
		case errors.Is(err, usecase.ErrJobNotFound):
			writeError(h.logger, w, http.StatusNotFound, "job not found")
		case errors.Is(err, usecase.ErrNotEmployer):
			writeError(h.logger, w, http.StatusForbidden, "only employers may perform this action")
		case errors.Is(err, usecase.ErrNotJobOwner):
			writeError(h.logger, w, http.StatusForbidden, "job belongs to another employer")
		case errors.Is(err, usecase.ErrInvalidApplicationStatus):
			writeError(h.logger, w, http.StatusBadRequest, "invalid application status")
		case errors.Is(err, usecase.ErrInvalidStatusTransition):
			writeError(h.logger, w, http.StatusConflict, "status transition is not allowed")
		default:
			writeInternalError(h.logger, w, err, "failed to update application status")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.ApplicationResponse{
		Message:     "application status updated",
		Application: application,
	})
}
