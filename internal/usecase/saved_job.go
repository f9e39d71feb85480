package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/repository"
)

// SavedJobUsecase defines the business logic for job bookmarks.
type SavedJobUsecase interface {
	Save(ctx context.Context, seekerID, jobID string) (*model.SavedJob, error)
	Unsave(ctx context.Context, seekerID, jobID string) error
	ListMine(ctx context.Context, seekerID string) ([]SavedJobWithJob, error)
}

// SavedJobWithJob pairs a bookmark with its job for seeker-facing listings.
// Job is nil when the posting has been deleted since saving.
type SavedJobWithJob struct {
	SavedJob *model.SavedJob `json:"savedJob"`
	Job      *model.Job      `json:"job"`
}

var ErrSavedJobNotFound = errors.New("saved job not found")

type savedJobUsecase struct {
	savedJobRepo repository.SavedJobRepository
	jobRepo      repository.JobRepository
}

// NewSavedJobUsecase creates a new instance of SavedJobUsecase.
func NewSavedJobUsecase(
	savedJobRepo repository.SavedJobRepository,
	jobRepo repository.JobRepository,
) SavedJobUsecase {
	return &savedJobUsecase{
		savedJobRepo: savedJobRepo,
		jobRepo:      jobRepo,
	}
}

// Save bookmarks the job for the seeker. Saving an already-saved job returns
// the existing bookmark unchanged; the upsert on the unique pair index makes
// the operation idempotent under concurrency as well.
func (u *savedJobUsecase) Save(ctx context.Context, seekerID, jobID string) (*model.SavedJob, error) {
	if _, err := u.jobRepo.GetJob(ctx, jobID); err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	return u.savedJobRepo.UpsertSavedJob(ctx, seekerID, jobID)
}

func (u *savedJobUsecase) Unsave(ctx context.Context, seekerID, jobID string) error {
	if _, err := u.savedJobRepo.DeleteSavedJob(ctx, seekerID, jobID); err != nil {
		if isNotFound(err) {
			return ErrSavedJobNotFound
		}
		return err
	}

	return nil
}

func (u *savedJobUsecase) ListMine(ctx context.Context, seekerID string) ([]SavedJobWithJob, error) {
	savedJobs, err := u.savedJobRepo.ListSavedJobsBySeeker(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	ids := make([]bson.ObjectID, 0, len(savedJobs))
	for _, savedJob := range savedJobs {
		ids = append(ids, savedJob.JobID)
	}

	jobs, err := u.jobRepo.GetJobsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Job, len(jobs))
	for _, job := range jobs {
		byID[job.ID.Hex()] = job
	}

	result := make([]SavedJobWithJob, 0, len(savedJobs))
	for _, savedJob := range savedJobs {
		result = append(result, SavedJobWithJob{
			SavedJob: savedJob,
			Job:      byID[savedJob.JobID.Hex()],
		})
	}

	return result, nil
}
