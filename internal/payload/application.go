package payload

import (
	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/usecase"
)

type ApplyRequest struct {
	ResumeURL   string `json:"resumeUrl"   validate:"omitempty,url"`
	CoverLetter string `json:"coverLetter"`
}

type AdvanceStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=received shortlisted interview offered rejected"`
	Notes  *string `json:"notes"`
}

type ApplicationResponse struct {
	Message     string             `json:"message,omitempty"`
	Application *model.Application `json:"application"`
}

type ApplicationListResponse struct {
	Applications []usecase.ApplicationWithJob `json:"applications"`
}

type JobApplicationListResponse struct {
	Applications []*model.Application `json:"applications"`
}

type SavedJobResponse struct {
	Message  string          `json:"message,omitempty"`
	SavedJob *model.SavedJob `json:"savedJob"`
}

type SavedJobListResponse struct {
	SavedJobs []usecase.SavedJobWithJob `json:"savedJobs"`
}
