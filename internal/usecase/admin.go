package usecase

import (
	"context"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/repository"
)

// AdminUsecase defines the administrative operations over the platform.
// Role gating happens at the route level; every operation here assumes an
// admin principal.
type AdminUsecase interface {
	Stats(ctx context.Context) (*PlatformStats, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ToggleBan(ctx context.Context, userID string) (*model.User, error)
	ListJobs(ctx context.Context) ([]*model.Job, error)
	DeleteJob(ctx context.Context, jobID string) error
}

// PlatformStats aggregates platform-wide counters.
type PlatformStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalEmployers    int64 `json:"totalEmployers"`
	TotalSeekers      int64 `json:"totalJobSeekers"`
	TotalJobs         int64 `json:"totalJobs"`
	TotalApplications int64 `json:"totalApplications"`
}

type adminUsecase struct {
	userRepo        repository.UserRepository
	jobRepo         repository.JobRepository
	applicationRepo repository.ApplicationRepository
}

// NewAdminUsecase creates a new instance of AdminUsecase.
func NewAdminUsecase(
	userRepo repository.UserRepository,
	jobRepo repository.JobRepository,
	applicationRepo repository.ApplicationRepository,
) AdminUsecase {
	return &adminUsecase{
		userRepo:        userRepo,
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
	}
}

func (u *adminUsecase) Stats(ctx context.Context) (*PlatformStats, error) {
	totalUsers, err := u.userRepo.CountUsers(ctx, nil)
	if err != nil {
		return nil, err
	}

	employerRole := model.RoleEmployer
	totalEmployers, err := u.userRepo.CountUsers(ctx, &employerRole)
	if err != nil {
		return nil, err
	}

	seekerRole := model.RoleSeeker
	totalSeekers, err := u.userRepo.CountUsers(ctx, &seekerRole)
	if err != nil {
		return nil, err
	}

	totalJobs, err := u.jobRepo.CountJobs(ctx, repository.FilterJobsParams{})
	if err != nil {
		return nil, err
	}

	totalApplications, err := u.applicationRepo.CountApplications(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalUsers:        totalUsers,
		TotalEmployers:    totalEmployers,
		TotalSeekers:      totalSeekers,
		TotalJobs:         totalJobs,
		TotalApplications: totalApplications,
	}, nil
}

func (u *adminUsecase) ListUsers(ctx context.Context) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx)
}

func (u *adminUsecase) ToggleBan(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	status := model.UserStatusBanned
	if user.Status == model.UserStatusBanned {
		status = model.UserStatusActive
	}

	return u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{Status: &status})
}

func (u *adminUsecase) ListJobs(ctx context.Context) ([]*model.Job, error) {
	return u.jobRepo.ListJobs(ctx, repository.FilterJobsParams{})
}

func (u *adminUsecase) DeleteJob(ctx context.Context, jobID string) error {
	if _, err := u.jobRepo.DeleteJob(ctx, jobID); err != nil {
		if isNotFound(err) {
			return ErrJobNotFound
		}
		return err
	}

	return nil
}
