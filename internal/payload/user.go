package payload

import "github.com/prasertsakk/job-portal-api/internal/model"

type UpdateProfileRequest struct {
	Name       *string             `json:"name"`
	Phone      *string             `json:"phone"`
	Skills     *[]string           `json:"skills"`
	Education  *[]model.Education  `json:"education"`
	Experience *[]model.Experience `json:"experience"`
	ResumeURL  *string             `json:"resumeUrl" validate:"omitempty,url"`
	Location   *model.Location     `json:"location"`
}

type CompanyProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Website  string `json:"website" validate:"omitempty,url"`
	LogoURL  string `json:"logoUrl" validate:"omitempty,url"`
	About    string `json:"about"`
	Location string `json:"location"`
}

type UserResponse struct {
	Message string      `json:"message,omitempty"`
	User    *model.User `json:"user"`
}

type UserListResponse struct {
	Users []*model.User `json:"users"`
}
