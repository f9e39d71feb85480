package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/prasertsakk/job-portal-api/internal/model"
)

func newApplicationFixture() (ApplicationUsecase, *fakeJobRepository, *fakeApplicationRepository) {
	jobRepo := newFakeJobRepository()
	applicationRepo := newFakeApplicationRepository()
	logger := zerolog.Nop()
	return NewApplicationUsecase(applicationRepo, jobRepo, &logger), jobRepo, applicationRepo
}

func createJob(t *testing.T, jobRepo *fakeJobRepository, employerID bson.ObjectID, status model.JobStatus) *model.Job {
	t.Helper()
	job, err := jobRepo.CreateJob(context.Background(), &model.Job{
		EmployerID: employerID,
		Title:      "Backend Engineer",
		Type:       model.JobTypeFullTime,
		SalaryMin:  60000,
		SalaryMax:  90000,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	seekerID := bson.NewObjectID()

	t.Run("creates application in received state", func(t *testing.T) {
		u, jobRepo, _ := newApplicationFixture()
		job := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)

		application, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{
			ResumeURL:   "https://example.com/resume.pdf",
			CoverLetter: "hello",
		})
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if application.Status != model.ApplicationStatusReceived {
			t.Errorf("status = %q, want %q", application.Status, model.ApplicationStatusReceived)
		}
		if application.JobID != job.ID || application.SeekerID != seekerID {
			t.Error("application not linked to job and seeker")
		}

		stored, err := jobRepo.GetJob(ctx, job.ID.Hex())
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if len(stored.Applications) != 1 || stored.Applications[0] != application.ID {
			t.Error("application id not recorded on job")
		}
	})

	t.Run("rejects second application for the same job", func(t *testing.T) {
		u, jobRepo, _ := newApplicationFixture()
		job := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)

		if _, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{}); err != nil {
			t.Fatalf("first apply: %v", err)
		}
		_, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{})
		if !errors.Is(err, ErrAlreadyApplied) {
			t.Errorf("err = %v, want ErrAlreadyApplied", err)
		}
	})

	t.Run("only one of many simultaneous applications wins", func(t *testing.T) {
		u, jobRepo, _ := newApplicationFixture()
		job := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)

		const attempts = 16
		errs := make(chan error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var succeeded, rejected int
		for err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyApplied):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 {
			t.Errorf("successes = %d, want exactly 1", succeeded)
		}
		if rejected != attempts-1 {
			t.Errorf("rejections = %d, want %d", rejected, attempts-1)
		}
	})

	t.Run("rejects non-active job", func(t *testing.T) {
		u, jobRepo, _ := newApplicationFixture()
		job := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusPaused)

		_, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{})
		if !errors.Is(err, ErrJobNotActive) {
			t.Errorf("err = %v, want ErrJobNotActive", err)
		}
	})

	t.Run("rejects missing job", func(t *testing.T) {
		u, _, _ := newApplicationFixture()

		_, err := u.Apply(ctx, bson.NewObjectID().Hex(), seekerID.Hex(), ApplyParams{})
		if !errors.Is(err, ErrJobNotFound) {
			t.Errorf("err = %v, want ErrJobNotFound", err)
		}
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	seekerID := bson.NewObjectID()

	t.Run("removes application and job back-reference", func(t *testing.T) {
		u, jobRepo, _ := newApplicationFixture()
		job := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)

		if _, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{}); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if err := u.Withdraw(ctx, job.ID.Hex(), seekerID.Hex()); err != nil {
			t.Fatalf("withdraw: %v", err)
		}

		stored, err := jobRepo.GetJob(ctx, job.ID.Hex())
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if len(stored.Applications) != 0 {
			t.Error("application id still recorded on job")
		}

		applications, err := u.ListMine(ctx, seekerID.Hex())
		if err != nil {
			t.Fatalf("list mine: %v", err)
		}
		if len(applications) != 0 {
			t.Errorf("len(applications) = %d, want 0", len(applications))
		}
	})

	t.Run("seeker can apply again after withdrawing", func(t *testing.T) {
		u, jobRepo, _ := newApplicationFixture()
		job := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)

		if _, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{}); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if err := u.Withdraw(ctx, job.ID.Hex(), seekerID.Hex()); err != nil {
			t.Fatalf("withdraw: %v", err)
		}
		if _, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{}); err != nil {
			t.Errorf("re-apply after withdraw: %v", err)
		}
	})

	t.Run("returns not found when never applied", func(t *testing.T) {
		u, jobRepo, _ := newApplicationFixture()
		job := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)

		err := u.Withdraw(ctx, job.ID.Hex(), seekerID.Hex())
		if !errors.Is(err, ErrApplicationNotFound) {
			t.Errorf("err = %v, want ErrApplicationNotFound", err)
		}
	})

	t.Run("tolerates job deleted after applying", func(t *testing.T) {
		u, jobRepo, _ := newApplicationFixture()
		job := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)

		if _, err := u.Apply(ctx, job.ID.Hex(), seekerID.Hex(), ApplyParams{}); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if _, err := jobRepo.DeleteJob(ctx, job.ID.Hex()); err != nil {
			t.Fatalf("delete job: %v", err)
		}
		if err := u.Withdraw(ctx, job.ID.Hex(), seekerID.Hex()); err != nil {
			t.Errorf("withdraw after job deletion: %v", err)
		}
	})
}

func TestAdvanceStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (ApplicationUsecase, *model.Application, model.Principal) {
		t.Helper()
		u, jobRepo, _ := newApplicationFixture()
		employerID := bson.NewObjectID()
		job := createJob(t, jobRepo, employerID, model.JobStatusActive)
		application, err := u.Apply(ctx, job.ID.Hex(), bson.NewObjectID().Hex(), ApplyParams{})
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		return u, application, model.Principal{ID: employerID.Hex(), Role: model.RoleEmployer}
	}

	t.Run("walks the full pipeline to offered", func(t *testing.T) {
		u, application, employer := setup(t)

		for _, status := range []model.ApplicationStatus{
			model.ApplicationStatusShortlisted,
			model.ApplicationStatusInterview,
			model.ApplicationStatusOffered,
		} {
			updated, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{Status: status})
			if err != nil {
				t.Fatalf("advance to %q: %v", status, err)
			}
			if updated.Status != status {
				t.Fatalf("status = %q, want %q", updated.Status, status)
			}
		}
	})

	t.Run("allows rejection from any non-terminal state", func(t *testing.T) {
		u, application, employer := setup(t)

		updated, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{
			Status: model.ApplicationStatusRejected,
		})
		if err != nil {
			t.Fatalf("reject: %v", err)
		}
		if updated.Status != model.ApplicationStatusRejected {
			t.Errorf("status = %q, want rejected", updated.Status)
		}
	})

	t.Run("records review notes", func(t *testing.T) {
		u, application, employer := setup(t)

		notes := "strong portfolio"
		updated, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{
			Status: model.ApplicationStatusShortlisted,
			Notes:  &notes,
		})
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if updated.Notes != notes {
			t.Errorf("notes = %q, want %q", updated.Notes, notes)
		}
	})

	t.Run("rejects skipped transition", func(t *testing.T) {
		u, application, employer := setup(t)

		_, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{
			Status: model.ApplicationStatusOffered,
		})
		if !errors.Is(err, ErrInvalidStatusTransition) {
			t.Errorf("err = %v, want ErrInvalidStatusTransition", err)
		}
	})

	t.Run("rejects backward transition", func(t *testing.T) {
		u, application, employer := setup(t)

		if _, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{
			Status: model.ApplicationStatusShortlisted,
		}); err != nil {
			t.Fatalf("advance: %v", err)
		}
		_, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{
			Status: model.ApplicationStatusReceived,
		})
		if !errors.Is(err, ErrInvalidStatusTransition) {
			t.Errorf("err = %v, want ErrInvalidStatusTransition", err)
		}
	})

	t.Run("rejects transition out of terminal state", func(t *testing.T) {
		u, application, employer := setup(t)

		if _, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{
			Status: model.ApplicationStatusRejected,
		}); err != nil {
			t.Fatalf("reject: %v", err)
		}
		_, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{
			Status: model.ApplicationStatusShortlisted,
		})
		if !errors.Is(err, ErrInvalidStatusTransition) {
			t.Errorf("err = %v, want ErrInvalidStatusTransition", err)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		u, application, employer := setup(t)

		_, err := u.AdvanceStatus(ctx, application.ID.Hex(), employer, AdvanceStatusParams{
			Status: model.ApplicationStatus("hired"),
		})
		if !errors.Is(err, ErrInvalidApplicationStatus) {
			t.Errorf("err = %v, want ErrInvalidApplicationStatus", err)
		}
	})

	t.Run("rejects employer who does not own the job", func(t *testing.T) {
		u, application, _ := setup(t)

		other := model.Principal{ID: bson.NewObjectID().Hex(), Role: model.RoleEmployer}
		_, err := u.AdvanceStatus(ctx, application.ID.Hex(), other, AdvanceStatusParams{
			Status: model.ApplicationStatusShortlisted,
		})
		if !errors.Is(err, ErrNotJobOwner) {
			t.Errorf("err = %v, want ErrNotJobOwner", err)
		}
	})

	t.Run("rejects seekers", func(t *testing.T) {
		u, application, _ := setup(t)

		seeker := model.Principal{ID: bson.NewObjectID().Hex(), Role: model.RoleSeeker}
		_, err := u.AdvanceStatus(ctx, application.ID.Hex(), seeker, AdvanceStatusParams{
			Status: model.ApplicationStatusShortlisted,
		})
		if !errors.Is(err, ErrNotEmployer) {
			t.Errorf("err = %v, want ErrNotEmployer", err)
		}
	})
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	u, jobRepo, _ := newApplicationFixture()
	seekerID := bson.NewObjectID()

	first := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)
	second := createJob(t, jobRepo, bson.NewObjectID(), model.JobStatusActive)

	if _, err := u.Apply(ctx, first.ID.Hex(), seekerID.Hex(), ApplyParams{}); err != nil {
		t.Fatalf("apply first: %v", err)
	}
	if _, err := u.Apply(ctx, second.ID.Hex(), seekerID.Hex(), ApplyParams{}); err != nil {
		t.Fatalf("apply second: %v", err)
	}

	applications, err := u.ListMine(ctx, seekerID.Hex())
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(applications) != 2 {
		t.Fatalf("len(applications) = %d, want 2", len(applications))
	}

	// Newest first, each with its job embedded.
	if applications[0].Application.JobID != second.ID {
		t.Error("applications not sorted newest first")
	}
	for _, entry := range applications {
		if entry.Job == nil {
			t.Fatal("job not embedded")
		}
		if entry.Job.ID != entry.Application.JobID {
			t.Error("embedded job does not match application")
		}
	}
}

func TestListForJob(t *testing.T) {
	ctx := context.Background()
	u, jobRepo, _ := newApplicationFixture()
	employerID := bson.NewObjectID()
	job := createJob(t, jobRepo, employerID, model.JobStatusActive)

	for range 3 {
		if _, err := u.Apply(ctx, job.ID.Hex(), bson.NewObjectID().Hex(), ApplyParams{}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	owner := model.Principal{ID: employerID.Hex(), Role: model.RoleEmployer}
	applications, err := u.ListForJob(ctx, job.ID.Hex(), owner)
	if err != nil {
		t.Fatalf("list for job: %v", err)
	}
	if len(applications) != 3 {
		t.Errorf("len(applications) = %d, want 3", len(applications))
	}

	admin := model.Principal{ID: bson.NewObjectID().Hex(), Role: model.RoleAdmin}
	if _, err := u.ListForJob(ctx, job.ID.Hex(), admin); err != nil {
		t.Errorf("admin list for job: %v", err)
	}

	other := model.Principal{ID: bson.NewObjectID().Hex(), Role: model.RoleEmployer}
	if _, err := u.ListForJob(ctx, job.ID.Hex(), other); !errors.Is(err, ErrNotJobOwner) {
		t.Errorf("err = %v, want ErrNotJobOwner", err)
	}
}
