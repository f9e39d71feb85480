package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/repository"
)

// JobUsecase defines the business logic for job postings and job search.
type JobUsecase interface {
	CreateJob(ctx context.Context, principal model.Principal, params CreateJobParams) (*model.Job, error)
	UpdateJob(ctx context.Context, jobID string, principal model.Principal, params UpdateJobParams) (*model.Job, error)
	DeleteJob(ctx context.Context, jobID string, principal model.Principal) error
	ListMyJobs(ctx context.Context, principal model.Principal) ([]*model.Job, error)
	Browse(ctx context.Context, params BrowseJobsParams) (*BrowseJobsResult, error)
	GetJob(ctx context.Context, jobID string, principal *model.Principal) (*model.Job, error)
	SearchSeekers(ctx context.Context, principal model.Principal, params SearchSeekersParams) ([]*model.User, error)
}

// CreateJobParams defines the parameters for posting a new job.
type CreateJobParams struct {
	Title              string
	Description        string
	Location           string
	Type               model.JobType
	SalaryMin          int64
	SalaryMax          int64
	RequiredSkills     []string
	RequiredExperience int
	IsRemote           bool
}

// UpdateJobParams defines the optional parameters for updating a job posting.
// Only the fields that are not nil will be updated.
type UpdateJobParams struct {
	Title              *string
	Description        *string
	Location           *string
	Type               *model.JobType
	SalaryMin          *int64
	SalaryMax          *int64
	RequiredSkills     *[]string
	RequiredExperience *int
	IsRemote           *bool
	Status             *model.JobStatus
}

// BrowseJobsParams defines the public search filters. Zero values mean the
// filter is not applied; salary bounds are pointers so that 0 is a usable bound.
type BrowseJobsParams struct {
	Keyword   string
	Location  string
	Type      string
	MinSalary *int64
	MaxSalary *int64
	Page      int
	Limit     int
}

// Pagination describes the page window of a browse result.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// BrowseJobsResult is a single page of matching active jobs.
type BrowseJobsResult struct {
	Jobs       []*model.Job `json:"jobs"`
	Pagination Pagination   `json:"pagination"`
}

// SearchSeekersParams defines the employer-side candidate search filters.
// Skills is a comma-separated list matched with OR semantics.
type SearchSeekersParams struct {
	Skills  string
	City    string
	Country string
}

// SearchCache caches serialized browse results. A nil cache disables caching.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrNotEmployer    = errors.New("only employers may perform this action")
	ErrNotJobOwner    = errors.New("job belongs to another employer")
	ErrInvalidJobType = errors.New("invalid job type")
)

const (
	defaultBrowseLimit = 10
	browseCacheTTL     = 30 * time.Second
)

type jobUsecase struct {
	jobRepo  repository.JobRepository
	userRepo repository.UserRepository
	cache    SearchCache
}

// NewJobUsecase creates a new instance of JobUsecase. cache may be nil.
func NewJobUsecase(
	jobRepo repository.JobRepository,
	userRepo repository.UserRepository,
	cache SearchCache,
) JobUsecase {
	return &jobUsecase{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		cache:    cache,
	}
}

func (u *jobUsecase) CreateJob(
	ctx context.Context,
	principal model.Principal,
	params CreateJobParams,
) (*model.Job, error) {
	if principal.Role != model.RoleEmployer {
		return nil, ErrNotEmployer
	}

	if !params.Type.Valid() {
		return nil, ErrInvalidJobType
	}

	employerID, err := parseObjectID(principal.ID)
	if err != nil {
		return nil, err
	}

	return u.jobRepo.CreateJob(ctx, &model.Job{
		EmployerID:         employerID,
		Title:              params.Title,
		Description:        params.Description,
		Location:           params.Location,
		Type:               params.Type,
		SalaryMin:          params.SalaryMin,
		SalaryMax:          params.SalaryMax,
		RequiredSkills:     params.RequiredSkills,
		RequiredExperience: params.RequiredExperience,
		IsRemote:           params.IsRemote,
		Status:             model.JobStatusActive,
	})
}

func (u *jobUsecase) UpdateJob(
	ctx context.Context,
	jobID string,
	principal model.Principal,
	params UpdateJobParams,
) (*model.Job, error) {
	if err := u.authorizeJobMutation(ctx, jobID, principal); err != nil {
		return nil, err
	}

	if params.Type != nil && !params.Type.Valid() {
		return nil, ErrInvalidJobType
	}
	if params.Status != nil && !params.Status.Valid() {
		return nil, ErrInvalidJobType
	}

	job, err := u.jobRepo.UpdateJob(ctx, jobID, repository.UpdateJobParams{
		Title:              params.Title,
		Description:        params.Description,
		Location:           params.Location,
		Type:               params.Type,
		SalaryMin:          params.SalaryMin,
		SalaryMax:          params.SalaryMax,
		RequiredSkills:     params.RequiredSkills,
		RequiredExperience: params.RequiredExperience,
		IsRemote:           params.IsRemote,
		Status:             params.Status,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	return job, nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, jobID string, principal model.Principal) error {
	if err := u.authorizeJobMutation(ctx, jobID, principal); err != nil {
		return err
	}

	if _, err := u.jobRepo.DeleteJob(ctx, jobID); err != nil {
		if isNotFound(err) {
			return ErrJobNotFound
		}
		return err
	}

	return nil
}

func (u *jobUsecase) ListMyJobs(ctx context.Context, principal model.Principal) ([]*model.Job, error) {
	if principal.Role != model.RoleEmployer {
		return nil, ErrNotEmployer
	}

	return u.jobRepo.ListJobs(ctx, repository.FilterJobsParams{
		EmployerID: &principal.ID,
	})
}

func (u *jobUsecase) Browse(ctx context.Context, params BrowseJobsParams) (*BrowseJobsResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = defaultBrowseLimit
	}
	if params.Type != "" && !model.JobType(params.Type).Valid() {
		return nil, ErrInvalidJobType
	}

	cacheKey := browseCacheKey(params)
	if u.cache != nil {
		var cached BrowseJobsResult
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	status := model.JobStatusActive
	filter := repository.FilterJobsParams{
		Status:    &status,
		MinSalary: params.MinSalary,
		MaxSalary: params.MaxSalary,
		Limit:     uint64(params.Limit),
		Offset:    uint64((params.Page - 1) * params.Limit),
	}
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		filter.Keyword = &keyword
	}
	if location := strings.TrimSpace(params.Location); location != "" {
		filter.Location = &location
	}
	if params.Type != "" {
		jobType := model.JobType(params.Type)
		filter.Type = &jobType
	}

	jobs, err := u.jobRepo.ListJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := u.jobRepo.CountJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	if jobs == nil {
		jobs = []*model.Job{}
	}

	result := &BrowseJobsResult{
		Jobs: jobs,
		Pagination: Pagination{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, result, browseCacheTTL)
	}

	return result, nil
}

func (u *jobUsecase) GetJob(
	ctx context.Context,
	jobID string,
	principal *model.Principal,
) (*model.Job, error) {
	job, err := u.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if job.Status == model.JobStatusActive {
		return job, nil
	}

	// Non-active jobs are visible to their owner and admins only. Everyone
	// else gets the same answer as for a missing job, to avoid leaking the
	// posting's existence.
	if principal != nil {
		if principal.Role == model.RoleAdmin {
			return job, nil
		}
		if principal.Role == model.RoleEmployer && job.EmployerID.Hex() == principal.ID {
			return job, nil
		}
	}

	return nil, ErrJobNotFound
}

func (u *jobUsecase) SearchSeekers(
	ctx context.Context,
	principal model.Principal,
	params SearchSeekersParams,
) ([]*model.User, error) {
	if principal.Role != model.RoleEmployer {
		return nil, ErrNotEmployer
	}

	repoParams := repository.SearchSeekersParams{}
	for _, skill := range strings.Split(params.Skills, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			repoParams.Skills = append(repoParams.Skills, skill)
		}
	}
	if city := strings.TrimSpace(params.City); city != "" {
		repoParams.City = &city
	}
	if country := strings.TrimSpace(params.Country); country != "" {
		repoParams.Country = &country
	}

	return u.userRepo.SearchSeekers(ctx, repoParams)
}

// authorizeJobMutation verifies that the principal may mutate the job: the
// owning employer or an admin.
func (u *jobUsecase) authorizeJobMutation(
	ctx context.Context,
	jobID string,
	principal model.Principal,
) error {
	job, err := u.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		if isNotFound(err) {
			return ErrJobNotFound
		}
		return err
	}

	if principal.Role == model.RoleAdmin {
		return nil
	}
	if principal.Role != model.RoleEmployer {
		return ErrNotEmployer
	}
	if job.EmployerID.Hex() != principal.ID {
		return ErrNotJobOwner
	}

	return nil
}
