package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prasertsakk/job-portal-api/internal/payload"
	"github.com/prasertsakk/job-portal-api/internal/usecase"
)

// AdminHandler serves the platform administration endpoints.
type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
	logger       *zerolog.Logger
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, logger *zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		logger:       logger,
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminUsecase.Stats(r.Context())
	if err != nil {
		writeInternalError(h.logger, w, err, "failed to compute platform stats")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminUsecase.ListUsers(r.Context())
	if err != nil {
		writeInternalError(h.logger, w, err, "failed to list users")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.UserListResponse{Users: users})
}

func (h *AdminHandler) ToggleBan(w http.ResponseWriter, r *http.Request) {
	user, err := h.adminUsecase.ToggleBan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			writeError(h.logger, w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(h.logger, w, err, "failed to toggle user ban")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.UserResponse{Message: "user status updated", User: user})
}

func (h *AdminHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.adminUsecase.ListJobs(r.Context())
	if err != nil {
		writeInternalError(h.logger, w, err, "failed to list jobs")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.JobListResponse{Jobs: jobs})
}

func (h *AdminHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	err := h.adminUsecase.DeleteJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrJobNotFound) {
			writeError(h.logger, w, http.StatusNotFound, "job not found")
			return
		}
		writeInternalError(h.logger, w, err, "failed to delete job")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.JobResponse{Message: "job deleted"})
}
