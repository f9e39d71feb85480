package payload

import (
	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/usecase"
)

type CreateJobRequest struct {
	Title              string   `json:"title"       validate:"required"`
	Description        string   `json:"description" validate:"required"`
	Location           string   `json:"location"`
	Type               string   `json:"type" validate:"required,oneof=Full-time Part-time Contract Internship Remote"`
	SalaryMin          int64    `json:"salaryMin" validate:"gte=0"`
	SalaryMax          int64    `json:"salaryMax" validate:"gtefield=SalaryMin"`
	RequiredSkills     []string `json:"requiredSkills"`
	RequiredExperience int      `json:"requiredExperience" validate:"gte=0"`
	IsRemote           bool     `json:"isRemote"`
}

type UpdateJobRequest struct {
	Title              *string   `json:"title"`
	Description        *string   `json:"description"`
	Location           *string   `json:"location"`
	Type               *string   `json:"type" validate:"omitempty,oneof=Full-time Part-time Contract Internship Remote"`
	SalaryMin          *int64    `json:"salaryMin" validate:"omitempty,gte=0"`
	SalaryMax          *int64    `json:"salaryMax" validate:"omitempty,gte=0"`
	RequiredSkills     *[]string `json:"requiredSkills"`
	RequiredExperience *int      `json:"requiredExperience" validate:"omitempty,gte=0"`
	IsRemote           *bool     `json:"isRemote"`
	Status             *string   `json:"status" validate:"omitempty,oneof=active paused closed"`
}

// BrowseJobsQuery is decoded from the public search query string.
type BrowseJobsQuery struct {
	Keyword   string `form:"keyword"`
	Location  string `form:"location"`
	Type      string `form:"type"`
	MinSalary *int64 `form:"minSalary"`
	MaxSalary *int64 `form:"maxSalary"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// SearchSeekersQuery is decoded from the candidate search query string.
type SearchSeekersQuery struct {
	Skills  string `form:"skills"`
	City    string `form:"city"`
	Country string `form:"country"`
}

type JobResponse struct {
	Message string     `json:"message,omitempty"`
	Job     *model.Job `json:"job"`
}

type JobListResponse struct {
	Jobs []*model.Job `json:"jobs"`
}

type BrowseJobsResponse struct {
	Jobs       []*model.Job       `json:"jobs"`
	Pagination usecase.Pagination `json:"pagination"`
}

type SeekerListResponse struct {
	JobSeekers []*model.User `json:"jobSeekers"`
}
