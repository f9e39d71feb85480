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

// AuthHandler serves registration, OTP verification, login and password
// resets.
type AuthHandler struct {
	authUsecase  usecase.AuthUsecase
	resetUsecase usecase.PasswordResetUsecase
	validator    *validation.Validator
	logger       *zerolog.Logger
}

func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	resetUsecase usecase.PasswordResetUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		resetUsecase: resetUsecase,
		validator:    validator,
		logger:       logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			writeError(h.logger, w, http.StatusConflict, "user already exists")
			return
		}
		writeInternalError(h.logger, w, err, "failed to register user")
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, payload.RegisterResponse{
		Message: "registration successful, please verify your email with the OTP sent",
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	err := h.authUsecase.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			writeError(h.logger, w, http.StatusNotFound, "user not found")
		case errors.Is(err, usecase.ErrAlreadyVerified):
			writeError(h.logger, w, http.StatusConflict, "account is already verified")
		case errors.Is(err, usecase.ErrInvalidOTP):
			writeError(h.logger, w, http.StatusBadRequest, "invalid OTP")
		case errors.Is(err, usecase.ErrOTPExpired):
			writeError(h.logger, w, http.StatusBadRequest, "OTP has expired")
		default:
			writeInternalError(h.logger, w, err, "failed to verify OTP")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.RegisterResponse{Message: "account verified"})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.ResendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	err := h.authUsecase.ResendOTP(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			writeError(h.logger, w, http.StatusNotFound, "user not found")
		case errors.Is(err, usecase.ErrAlreadyVerified):
			writeError(h.logger, w, http.StatusConflict, "account is already verified")
		case errors.Is(err, usecase.ErrOTPRateLimited):
			writeError(h.logger, w, http.StatusTooManyRequests, "OTP was sent recently, try again later")
		default:
			writeInternalError(h.logger, w, err, "failed to resend OTP")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.RegisterResponse{Message: "OTP sent"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.AuthResponse{Token: result.Token, User: result.User})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req payload.GoogleLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	result, err := h.authUsecase.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.AuthResponse{Token: result.Token, User: result.User})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	if err := h.resetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeInternalError(h.logger, w, err, "failed to request password reset")
		return
	}

	// Same response whether or not the address is registered.
	writeJSON(h.logger, w, http.StatusOK, payload.RegisterResponse{
		Message: "if that email is registered, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Validate(req); messages != nil {
		writeValidationErrors(h.logger, w, messages)
		return
	}

	err := h.resetUsecase.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrResetTokenInvalid):
			writeError(h.logger, w, http.StatusBadRequest, "invalid or expired reset token")
		case errors.Is(err, usecase.ErrResetTokenUsed):
			writeError(h.logger, w, http.StatusBadRequest, "reset token has already been used")
		default:
			writeInternalError(h.logger, w, err, "failed to reset password")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, payload.RegisterResponse{Message: "password has been reset"})
}

func (h *AuthHandler) writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeError(h.logger, w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, usecase.ErrUserNotVerified):
		writeError(h.logger, w, http.StatusForbidden, "account is not verified")
	case errors.Is(err, usecase.ErrUserBanned):
		writeError(h.logger, w, http.StatusForbidden, "account is banned")
	default:
		writeInternalError(h.logger, w, err, "failed to log in")
	}
}
