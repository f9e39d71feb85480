package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prasertsakk/job-portal-api/internal/payload"
	"github.com/prasertsakk/job-portal-api/internal/usecase"
)

// SavedJobHandler serves the seeker bookmark endpoints.
type SavedJobHandler struct {
	savedJobUsecase usecase.SavedJobUsecase
	logger          *zerolog.Logger
}

func NewSavedJobHandler(savedJobUsecase usecase.SavedJobUsecase, logger *zerolog.Logger) *SavedJobHandler {
	return &SavedJobHandler{
		savedJobUsecase: savedJobUsecase,
		logger:          logger,
	}
}

func (h *SavedJobHandler) Save(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	savedJob, err := h.savedJobUsecase.Save(r.Context(), principal.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrJobNotFound) {
			writeError(h.logger, w, http.StatusNotFound, "job not found")
			return
		}
		writeInternalError(h.logger, w, err, "failed to save job")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.SavedJobResponse{Message: "job saved", SavedJob: savedJob})
}

func (h *SavedJobHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	err := h.savedJobUsecase.Unsave(r.Context(), principal.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrSavedJobNotFound) {
			writeError(h.logger, w, http.StatusNotFound, "saved job not found")
			return
		}
		writeInternalError(h.logger, w, err, "failed to unsave job")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.SavedJobResponse{Message: "job removed from saved jobs"})
}

func (h *SavedJobHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	savedJobs, err := h.savedJobUsecase.ListMine(r.Context(), principal.ID)
	if err != nil {
		writeInternalError(h.logger, w, err, "failed to list saved jobs")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.SavedJobListResponse{SavedJobs: savedJobs})
}
