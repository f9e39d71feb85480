package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/shared/auth"
)

type principalContextKey struct{}

// PrincipalFromContext returns the authenticated principal attached by the
// auth middleware, if any.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(model.Principal)
	return principal, ok
}

// Authenticator validates bearer tokens and attaches the resulting principal
// to the request context.
type Authenticator struct {
	jwtAuth auth.JWTAuthenticator
	secret  string
	logger  *zerolog.Logger
}

// NewAuthenticator creates a new Authenticator instance.
func NewAuthenticator(jwtAuth auth.JWTAuthenticator, secret string, logger *zerolog.Logger) *Authenticator {
	return &Authenticator{
		jwtAuth: jwtAuth,
		secret:  secret,
		logger:  logger,
	}
}

// Require rejects requests without a valid bearer token.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := a.principalFromRequest(r)
		if !ok {
			writeError(a.logger, w, http.StatusUnauthorized, "missing or invalid authorization token")
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches a principal when a valid bearer token is present, and
// passes the request through unauthenticated otherwise. Public endpoints with
// owner-dependent visibility use this.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal, ok := a.principalFromRequest(r); ok {
			ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) principalFromRequest(r *http.Request) (model.Principal, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return model.Principal{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return model.Principal{}, false
	}

	claims := &auth.Claims{}
	if _, err := a.jwtAuth.ValidateTokenWithClaims(parts[1], a.secret, claims); err != nil {
		return model.Principal{}, false
	}

	return model.Principal{ID: claims.UserID, Role: claims.Role}, true
}

// RequireRole rejects authenticated requests whose principal does not carry
// one of the given roles. It must run after Authenticator.Require.
func RequireRole(logger *zerolog.Logger, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(logger, w, http.StatusUnauthorized, "missing or invalid authorization token")
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(logger, w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request completed")
		})
	}
}
