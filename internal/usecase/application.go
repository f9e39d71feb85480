package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/repository"
)

// ApplicationUsecase defines the business logic of the application lifecycle:
// apply, withdraw, and the employer-side review state machine.
type ApplicationUsecase interface {
	Apply(ctx context.Context, jobID, seekerID string, params ApplyParams) (*model.Application, error)
	Withdraw(ctx context.Context, jobID, seekerID string) error
	AdvanceStatus(ctx context.Context, applicationID string, principal model.Principal, params AdvanceStatusParams) (*model.Application, error)
	ListMine(ctx context.Context, seekerID string) ([]ApplicationWithJob, error)
	ListForJob(ctx context.Context, jobID string, principal model.Principal) ([]*model.Application, error)
}

// ApplyParams defines the parameters for applying to a job.
type ApplyParams struct {
	ResumeURL   string
	CoverLetter string
}

// AdvanceStatusParams defines the parameters for advancing an application's
// review status.
type AdvanceStatusParams struct {
	Status model.ApplicationStatus
	Notes  *string
}

// ApplicationWithJob pairs an application with its job for seeker-facing
// listings. Job is nil when the posting has been deleted since applying.
type ApplicationWithJob struct {
	Application *model.Application `json:"application"`
	Job         *model.Job         `json:"job"`
}

var (
	ErrJobNotActive             = errors.New("job is not accepting applications")
	ErrAlreadyApplied           = errors.New("already applied to this job")
	ErrApplicationNotFound      = errors.New("application not found")
	ErrInvalidApplicationStatus = errors.New("invalid application status")
	ErrInvalidStatusTransition  = errors.New("status transition not allowed")
)

type applicationUsecase struct {
	applicationRepo repository.ApplicationRepository
	jobRepo         repository.JobRepository
	logger          *zerolog.Logger
}

// NewApplicationUsecase creates a new instance of ApplicationUsecase.
func NewApplicationUsecase(
	applicationRepo repository.ApplicationRepository,
	jobRepo repository.JobRepository,
	logger *zerolog.Logger,
) ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		logger:          logger,
	}
}

func (u *applicationUsecase) Apply(
	ctx context.Context,
	jobID, seekerID string,
	params ApplyParams,
) (*model.Application, error) {
	job, err := u.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if job.Status != model.JobStatusActive {
		return nil, ErrJobNotActive
	}

	seekerObjectID, err := parseObjectID(seekerID)
	if err != nil {
		return nil, err
	}

	// The unique (job_id, seeker_id) index is the authoritative guard against
	// duplicate applications, so the insert goes first; two concurrent applies
	// for the same pair cannot both succeed.
	application, err := u.applicationRepo.CreateApplication(ctx, &model.Application{
		JobID:       job.ID,
		SeekerID:    seekerObjectID,
		ResumeURL:   params.ResumeURL,
		CoverLetter: params.CoverLetter,
		Status:      model.ApplicationStatusReceived,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	// The embedded list on the job is a display cache; the authoritative
	// relation is Application.JobID. A failure here must not fail the apply.
	if err := u.jobRepo.PushApplication(ctx, jobID, application.ID); err != nil {
		u.logger.Warn().Err(err).
			Str("job_id", jobID).
			Str("application_id", application.ID.Hex()).
			Msg("failed to record application on job")
	}

	return application, nil
}

func (u *applicationUsecase) Withdraw(ctx context.Context, jobID, seekerID string) error {
	application, err := u.applicationRepo.DeleteApplicationByJobAndSeeker(ctx, jobID, seekerID)
	if err != nil {
		if isNotFound(err) {
			return ErrApplicationNotFound
		}
		return err
	}

	// Best effort: the job may have been deleted independently.
	if err := u.jobRepo.PullApplication(ctx, jobID, application.ID); err != nil &&
		!isNotFound(err) {
		u.logger.Warn().Err(err).
			Str("job_id", jobID).
			Str("application_id", application.ID.Hex()).
			Msg("failed to remove application from job")
	}

	return nil
}

func (u *applicationUsecase) AdvanceStatus(
	ctx context.Context,
	applicationID string,
	principal model.Principal,
	params AdvanceStatusParams,
) (*model.Application, error) {
	if principal.Role != model.RoleEmployer {
		return nil, ErrNotEmployer
	}

	if !params.Status.Valid() {
		return nil, ErrInvalidApplicationStatus
	}

	application, err := u.applicationRepo.GetApplication(ctx, applicationID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	job, err := u.jobRepo.GetJob(ctx, application.JobID.Hex())
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if job.EmployerID.Hex() != principal.ID {
		return nil, ErrNotJobOwner
	}

	if !application.Status.CanTransitionTo(params.Status) {
		return nil, ErrInvalidStatusTransition
	}

	return u.applicationRepo.UpdateApplicationStatus(ctx, applicationID, repository.UpdateApplicationStatusParams{
		Status: params.Status,
		Notes:  params.Notes,
	})
}

func (u *applicationUsecase) ListMine(ctx context.Context, seekerID string) ([]ApplicationWithJob, error) {
	applications, err := u.applicationRepo.ListApplicationsBySeeker(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	jobs, err := u.jobsByID(ctx, applications)
	if err != nil {
		return nil, err
	}

	result := make([]ApplicationWithJob, 0, len(applications))
	for _, application := range applications {
		result = append(result, ApplicationWithJob{
			Application: application,
			Job:         jobs[application.JobID.Hex()],
		})
	}

	return result, nil
}

func (u *applicationUsecase) ListForJob(
	ctx context.Context,
	jobID string,
	principal model.Principal,
) ([]*model.Application, error) {
	if principal.Role != model.RoleEmployer && principal.Role != model.RoleAdmin {
		return nil, ErrNotEmployer
	}

	job, err := u.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if principal.Role == model.RoleEmployer && job.EmployerID.Hex() != principal.ID {
		return nil, ErrNotJobOwner
	}

	return u.applicationRepo.ListApplicationsByJob(ctx, jobID)
}

func (u *applicationUsecase) jobsByID(
	ctx context.Context,
	applications []*model.Application,
) (map[string]*model.Job, error) {
	ids := make([]bson.ObjectID, 0, len(applications))
	seen := make(map[string]bool, len(applications))
	for _, application := range applications {
		key := application.JobID.Hex()
		if !seen[key] {
			seen[key] = true
			ids = append(ids, application.JobID)
		}
	}

	jobs, err := u.jobRepo.GetJobsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Job, len(jobs))
	for _, job := range jobs {
		byID[job.ID.Hex()] = job
	}

	return byID, nil
}
