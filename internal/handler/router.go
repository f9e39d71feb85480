package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prasertsakk/job-portal-api/internal/model"
)

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Logger             *zerolog.Logger
	Authenticator      *Authenticator
	AuthHandler        *AuthHandler
	UserHandler        *UserHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
	SavedJobHandler    *SavedJobHandler
	AdminHandler       *AdminHandler
}

// NewRouter wires every endpoint under /api with its auth requirements.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.AuthHandler.Register)
			r.Post("/verify-otp", deps.AuthHandler.VerifyOTP)
			r.Post("/resend-otp", deps.AuthHandler.ResendOTP)
			r.Post("/login", deps.AuthHandler.Login)
			r.Post("/google", deps.AuthHandler.GoogleLogin)
			r.Post("/forgot-password", deps.AuthHandler.ForgotPassword)
			r.Post("/reset-password", deps.AuthHandler.ResetPassword)
		})

		// Public browse surface. Auth is optional so employers and admins
		// can see their own non-active postings.
		r.Group(func(r chi.Router) {
			r.Use(deps.Authenticator.Optional)
			r.Get("/jobs", deps.JobHandler.Browse)
			r.Get("/jobs/{id}", deps.JobHandler.GetJob)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Authenticator.Require)

			r.Get("/me", deps.UserHandler.GetMe)
			r.Put("/profile", deps.UserHandler.UpdateProfile)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(deps.Logger, model.RoleSeeker))
				r.Post("/jobs/{id}/applications", deps.ApplicationHandler.Apply)
				r.Delete("/jobs/{id}/applications/mine", deps.ApplicationHandler.Withdraw)
				r.Get("/applications/mine", deps.ApplicationHandler.ListMine)
				r.Post("/jobs/{id}/saved", deps.SavedJobHandler.Save)
				r.Delete("/jobs/{id}/saved", deps.SavedJobHandler.Unsave)
				r.Get("/saved-jobs", deps.SavedJobHandler.ListMine)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(deps.Logger, model.RoleEmployer, model.RoleAdmin))
				r.Post("/jobs", deps.JobHandler.CreateJob)
				r.Put("/jobs/{id}", deps.JobHandler.UpdateJob)
				r.Delete("/jobs/{id}", deps.JobHandler.DeleteJob)
				r.Get("/jobs/mine", deps.JobHandler.ListMyJobs)
				r.Get("/jobs/{id}/applications", deps.ApplicationHandler.ListForJob)
				r.Put("/applications/{id}/status", deps.ApplicationHandler.AdvanceStatus)
				r.Get("/jobseekers", deps.JobHandler.SearchSeekers)
				r.Put("/jobs/company", deps.UserHandler.UpdateCompanyProfile)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole(deps.Logger, model.RoleAdmin))
				r.Get("/stats", deps.AdminHandler.Stats)
				r.Get("/users", deps.AdminHandler.ListUsers)
				r.Put("/users/{id}/ban", deps.AdminHandler.ToggleBan)
				r.Get("/jobs", deps.AdminHandler.ListJobs)
				r.Delete("/jobs/{id}", deps.AdminHandler.DeleteJob)
			})
		})
	})

	return r
}
