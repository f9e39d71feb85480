package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/prasertsakk/job-portal-api/internal/model"
	"github.com/prasertsakk/job-portal-api/internal/repository"
)

// duplicateKeyError mirrors what the driver returns when a unique index
// rejects an insert, so mongo.IsDuplicateKeyError recognizes it.
func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}
}

// fakeClock hands out strictly increasing timestamps so created_at ordering
// is deterministic in tests.
type fakeClock struct {
	mu   sync.Mutex
	base time.Time
	seq  int
}

func newFakeClock() *fakeClock {
	return &fakeClock{base: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.base.Add(time.Duration(c.seq) * time.Second)
}

// fakeJobRepository is an in-memory JobRepository.
type fakeJobRepository struct {
	mu    sync.Mutex
	jobs  map[string]*model.Job
	clock *fakeClock
}

func newFakeJobRepository() *fakeJobRepository {
	return &fakeJobRepository{
		jobs:  make(map[string]*model.Job),
		clock: newFakeClock(),
	}
}

func (r *fakeJobRepository) CreateJob(_ context.Context, job *model.Job) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *job
	stored.ID = bson.NewObjectID()
	now := r.clock.next()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.jobs[stored.ID.Hex()] = &stored
	return &stored, nil
}

func (r *fakeJobRepository) GetJob(_ context.Context, id string) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepository) GetJobsByIDs(_ context.Context, ids []bson.ObjectID) ([]*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var jobs []*model.Job
	for _, id := range ids {
		if job, ok := r.jobs[id.Hex()]; ok {
			copied := *job
			jobs = append(jobs, &copied)
		}
	}
	return jobs, nil
}

func (r *fakeJobRepository) UpdateJob(_ context.Context, id string, params repository.UpdateJobParams) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if params.Title != nil {
		job.Title = *params.Title
	}
	if params.Description != nil {
		job.Description = *params.Description
	}
	if params.Location != nil {
		job.Location = *params.Location
	}
	if params.Type != nil {
		job.Type = *params.Type
	}
	if params.SalaryMin != nil {
		job.SalaryMin = *params.SalaryMin
	}
	if params.SalaryMax != nil {
		job.SalaryMax = *params.SalaryMax
	}
	if params.RequiredSkills != nil {
		job.RequiredSkills = *params.RequiredSkills
	}
	if params.RequiredExperience != nil {
		job.RequiredExperience = *params.RequiredExperience
	}
	if params.IsRemote != nil {
		job.IsRemote = *params.IsRemote
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	job.UpdatedAt = r.clock.next()
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepository) DeleteJob(_ context.Context, id string) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(r.jobs, id)
	return job, nil
}

func (r *fakeJobRepository) ListJobs(_ context.Context, params repository.FilterJobsParams) ([]*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.filter(params)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if params.Offset >= uint64(len(matched)) {
		return nil, nil
	}
	matched = matched[params.Offset:]
	if params.Limit > 0 && params.Limit < uint64(len(matched)) {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (r *fakeJobRepository) CountJobs(_ context.Context, params repository.FilterJobsParams) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.filter(params))), nil
}

func (r *fakeJobRepository) filter(params repository.FilterJobsParams) []*model.Job {
	var matched []*model.Job
	for _, job := range r.jobs {
		if params.Status != nil && job.Status != *params.Status {
			continue
		}
		if params.EmployerID != nil && job.EmployerID.Hex() != *params.EmployerID {
			continue
		}
		if params.Keyword != nil && !jobMatchesKeyword(job, *params.Keyword) {
			continue
		}
		if params.Location != nil &&
			!strings.Contains(strings.ToLower(job.Location), strings.ToLower(*params.Location)) {
			continue
		}
		if params.Type != nil && job.Type != *params.Type {
			continue
		}
		if params.MinSalary != nil && job.SalaryMax < *params.MinSalary {
			continue
		}
		if params.MaxSalary != nil && job.SalaryMin > *params.MaxSalary {
			continue
		}
		copied := *job
		matched = append(matched, &copied)
	}
	return matched
}

func jobMatchesKeyword(job *model.Job, keyword string) bool {
	keyword = strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(job.Title), keyword) ||
		strings.Contains(strings.ToLower(job.Description), keyword) {
		return true
	}
	for _, skill := range job.RequiredSkills {
		if strings.Contains(strings.ToLower(skill), keyword) {
			return true
		}
	}
	return false
}

func (r *fakeJobRepository) PushApplication(_ context.Context, jobID string, applicationID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	job.Applications = append(job.Applications, applicationID)
	return nil
}

func (r *fakeJobRepository) PullApplication(_ context.Context, jobID string, applicationID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	kept := job.Applications[:0]
	for _, id := range job.Applications {
		if id != applicationID {
			kept = append(kept, id)
		}
	}
	job.Applications = kept
	return nil
}

// fakeApplicationRepository is an in-memory ApplicationRepository enforcing
// the unique (job_id, seeker_id) constraint.
type fakeApplicationRepository struct {
	mu           sync.Mutex
	applications map[string]*model.Application
	clock        *fakeClock
}

func newFakeApplicationRepository() *fakeApplicationRepository {
	return &fakeApplicationRepository{
		applications: make(map[string]*model.Application),
		clock:        newFakeClock(),
	}
}

func (r *fakeApplicationRepository) CreateApplication(_ context.Context, application *model.Application) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.applications {
		if existing.JobID == application.JobID && existing.SeekerID == application.SeekerID {
			return nil, duplicateKeyError()
		}
	}

	stored := *application
	stored.ID = bson.NewObjectID()
	now := r.clock.next()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.applications[stored.ID.Hex()] = &stored
	return &stored, nil
}

func (r *fakeApplicationRepository) GetApplication(_ context.Context, id string) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	application, ok := r.applications[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *application
	return &copied, nil
}

func (r *fakeApplicationRepository) GetApplicationByJobAndSeeker(_ context.Context, jobID, seekerID string) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, application := range r.applications {
		if application.JobID.Hex() == jobID && application.SeekerID.Hex() == seekerID {
			copied := *application
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeApplicationRepository) DeleteApplicationByJobAndSeeker(_ context.Context, jobID, seekerID string) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, application := range r.applications {
		if application.JobID.Hex() == jobID && application.SeekerID.Hex() == seekerID {
			delete(r.applications, key)
			return application, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeApplicationRepository) UpdateApplicationStatus(_ context.Context, id string, params repository.UpdateApplicationStatusParams) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	application, ok := r.applications[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	application.Status = params.Status
	if params.Notes != nil {
		application.Notes = *params.Notes
	}
	application.UpdatedAt = r.clock.next()
	copied := *application
	return &copied, nil
}

func (r *fakeApplicationRepository) ListApplicationsBySeeker(_ context.Context, seekerID string) ([]*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.Application
	for _, application := range r.applications {
		if application.SeekerID.Hex() == seekerID {
			copied := *application
			matched = append(matched, &copied)
		}
	}
	sortApplicationsByCreatedDesc(matched)
	return matched, nil
}

func (r *fakeApplicationRepository) ListApplicationsByJob(_ context.Context, jobID string) ([]*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.Application
	for _, application := range r.applications {
		if application.JobID.Hex() == jobID {
			copied := *application
			matched = append(matched, &copied)
		}
	}
	sortApplicationsByCreatedDesc(matched)
	return matched, nil
}

func (r *fakeApplicationRepository) CountApplications(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.applications)), nil
}

func sortApplicationsByCreatedDesc(applications []*model.Application) {
	sort.Slice(applications, func(i, j int) bool {
		return applications[i].CreatedAt.After(applications[j].CreatedAt)
	})
}

// fakeSavedJobRepository is an in-memory SavedJobRepository with upsert
// semantics on the (seeker_id, job_id) pair.
type fakeSavedJobRepository struct {
	mu        sync.Mutex
	savedJobs map[string]*model.SavedJob
	clock     *fakeClock
}

func newFakeSavedJobRepository() *fakeSavedJobRepository {
	return &fakeSavedJobRepository{
		savedJobs: make(map[string]*model.SavedJob),
		clock:     newFakeClock(),
	}
}

func (r *fakeSavedJobRepository) UpsertSavedJob(_ context.Context, seekerID, jobID string) (*model.SavedJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seekerID + "/" + jobID
	if existing, ok := r.savedJobs[key]; ok {
		existing.UpdatedAt = r.clock.next()
		copied := *existing
		return &copied, nil
	}

	seekerObjectID, err := bson.ObjectIDFromHex(seekerID)
	if err != nil {
		return nil, err
	}
	jobObjectID, err := bson.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, err
	}

	now := r.clock.next()
	stored := &model.SavedJob{
		ID:        bson.NewObjectID(),
		SeekerID:  seekerObjectID,
		JobID:     jobObjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.savedJobs[key] = stored
	copied := *stored
	return &copied, nil
}

func (r *fakeSavedJobRepository) DeleteSavedJob(_ context.Context, seekerID, jobID string) (*model.SavedJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seekerID + "/" + jobID
	savedJob, ok := r.savedJobs[key]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(r.savedJobs, key)
	return savedJob, nil
}

func (r *fakeSavedJobRepository) ListSavedJobsBySeeker(_ context.Context, seekerID string) ([]*model.SavedJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.SavedJob
	for _, savedJob := range r.savedJobs {
		if savedJob.SeekerID.Hex() == seekerID {
			copied := *savedJob
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

// fakeUserRepository is an in-memory UserRepository enforcing the unique
// email constraint.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
	clock *fakeClock
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users: make(map[string]*model.User),
		clock: newFakeClock(),
	}
}

func (r *fakeUserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, duplicateKeyError()
		}
	}

	stored := *user
	stored.ID = bson.NewObjectID()
	now := r.clock.next()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID.Hex()] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeUserRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepository) GetUserByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.GoogleID != "" && user.GoogleID == googleID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepository) UpdateUser(_ context.Context, id string, params repository.UpdateUserParams) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Phone != nil {
		user.Phone = *params.Phone
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.Skills != nil {
		user.Skills = *params.Skills
	}
	if params.Education != nil {
		user.Education = *params.Education
	}
	if params.Experience != nil {
		user.Experience = *params.Experience
	}
	if params.ResumeURL != nil {
		user.ResumeURL = *params.ResumeURL
	}
	if params.Location != nil {
		user.Location = *params.Location
	}
	if params.Company != nil {
		user.Company = *params.Company
	}
	if params.Status != nil {
		user.Status = *params.Status
	}
	if params.Verified != nil {
		user.Verified = *params.Verified
	}
	if params.OTP != nil {
		user.OTP = *params.OTP
	}
	if params.OTPExpiresAt != nil {
		user.OTPExpiresAt = *params.OTPExpiresAt
	}
	if params.OTPLastSentAt != nil {
		user.OTPLastSentAt = *params.OTPLastSentAt
	}
	user.UpdatedAt = r.clock.next()
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) ListUsers(_ context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []*model.User
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *fakeUserRepository) SearchSeekers(_ context.Context, params repository.SearchSeekersParams) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.User
	for _, user := range r.users {
		if user.Role != model.RoleSeeker {
			continue
		}
		if len(params.Skills) > 0 && !hasAnySkill(user.Skills, params.Skills) {
			continue
		}
		if params.City != nil &&
			!strings.EqualFold(user.Location.City, *params.City) {
			continue
		}
		if params.Country != nil &&
			!strings.EqualFold(user.Location.Country, *params.Country) {
			continue
		}
		copied := *user
		matched = append(matched, &copied)
	}
	return matched, nil
}

func hasAnySkill(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// fakePasswordResetTokenRepository is an in-memory PasswordResetTokenRepository
// keyed by JTI.
type fakePasswordResetTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*model.PasswordResetToken
	clock  *fakeClock
}

func newFakePasswordResetTokenRepository() *fakePasswordResetTokenRepository {
	return &fakePasswordResetTokenRepository{
		tokens: make(map[string]*model.PasswordResetToken),
		clock:  newFakeClock(),
	}
}

func (r *fakePasswordResetTokenRepository) CreateToken(_ context.Context, token *model.PasswordResetToken) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token.JTI]; ok {
		return nil, duplicateKeyError()
	}

	stored := *token
	stored.ID = bson.NewObjectID()
	now := r.clock.next()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Used = false
	r.tokens[stored.JTI] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakePasswordResetTokenRepository) GetTokenByJTI(_ context.Context, jti string) (*model.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[jti]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *token
	return &copied, nil
}

func (r *fakePasswordResetTokenRepository) MarkTokenAsUsed(_ context.Context, jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.tokens[jti]; ok {
		token.Used = true
		token.UpdatedAt = r.clock.next()
	}
	return nil
}

func (r *fakePasswordResetTokenRepository) InvalidateUserTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, token := range r.tokens {
		if token.UserID.Hex() == userID && !token.Used {
			token.Used = true
			token.UpdatedAt = r.clock.next()
		}
	}
	return nil
}

func (r *fakeUserRepository) CountUsers(_ context.Context, role *model.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role == nil {
		return int64(len(r.users)), nil
	}
	var count int64
	for _, user := range r.users {
		if user.Role == *role {
			count++
		}
	}
	return count, nil
}
