package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/payload"
	"github.com/prasertsakk/job-portal-api/internal/usecase"
	"github.com/prasertsakk/job-portal-api/shared/validation"
)

// UserHandler serves the authenticated profile endpoints.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validation.Validator
	logger      *zerolog.Logger
}

func NewUserHandler(
	userUsecase usecase.UserUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.userUsecase.GetMe(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			writeError(h.logger, w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(h.logger, w, err, "failed to get profile")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.UserResponse{User: user})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req payload.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), principal.ID, usecase.UpdateProfileParams{
		Name:       req.Name,
		Phone:      req.Phone,
		Skills:     req.Skills,
		Education:  req.Education,
		Experience: req.Experience,
		ResumeURL:  req.ResumeURL,
		Location:   req.Location,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			writeError(h.logger, w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(h.logger, w, err, "failed to update profile")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.UserResponse{Message: "profile updated", User: user})
}

func (h *UserHandler) UpdateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req payload.CompanyProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	user, err := h.userUsecase.UpdateCompanyProfile(r.Context(), principal, model.Company{
		Name:     req.Name,
		Website:  req.Website,
		LogoURL:  req.LogoURL,
		About:    req.About,
		Location: req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			writeError(h.logger, w, http.StatusNotFound, "user not found")
		case errors.Is(err, usecase.ErrNotEmployer):
			writeError(h.logger, w, http.StatusForbidden, "only employers may perform this action")
		default:
			writeInternalError(h.logger, w, err, "failed to update company profile")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.UserResponse{Message: "company profile updated", User: user})
}
