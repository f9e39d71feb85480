package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/prasertsakk/job-portal-api/internal/model"
)

// JobRepository defines the interface for job-related database operations.
type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) (*model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	GetJobsByIDs(ctx context.Context, ids []bson.ObjectID) ([]*model.Job, error)
	UpdateJob(ctx context.Context, id string, params UpdateJobParams) (*model.Job, error)
	DeleteJob(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, params FilterJobsParams) ([]*model.Job, error)
	CountJobs(ctx context.Context, params FilterJobsParams) (int64, error)
	PushApplication(ctx context.Context, jobID string, applicationID bson.ObjectID) error
	PullApplication(ctx context.Context, jobID string, applicationID bson.ObjectID) error
}

// UpdateJobParams defines the optional parameters for updating a job.
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

// FilterJobsParams defines the parameters for filtering and paginating jobs.
// The salary bounds form a range-overlap test: a job matches when its salary
// band intersects [MinSalary, MaxSalary].
type FilterJobsParams struct {
	Status     *model.JobStatus
	EmployerID *string
	Keyword    *string
	Location   *string
	Type       *model.JobType
	MinSalary  *int64
	MaxSalary  *int64
	Limit      uint64
	Offset     uint64
}

const jobCollection = "jobs"

type jobMongoRepository struct {
	db *mongo.Database
}

func NewJobMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) JobRepository {
	collection := db.Collection(jobCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "employer_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "salary_min", Value: 1}, {Key: "salary_max", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "required_skills", Value: "text"},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create job indexes")
	}

	return &jobMongoRepository{db: db}
}

func (r *jobMongoRepository) CreateJob(ctx context.Context, job *model.Job) (*model.Job, error) {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	if job.Applications == nil {
		job.Applications = []bson.ObjectID{}
	}

	result, err := r.db.Collection(jobCollection).InsertOne(ctx, job)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		job.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return job, nil
}

func (r *jobMongoRepository) GetJob(ctx context.Context, id string) (*model.Job, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(jobCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var job model.Job
	if err := result.Decode(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *jobMongoRepository) GetJobsByIDs(ctx context.Context, ids []bson.ObjectID) ([]*model.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.db.Collection(jobCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []*model.Job
	for cursor.Next(ctx) {
		var job model.Job
		if err := cursor.Decode(&job); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *jobMongoRepository) UpdateJob(
	ctx context.Context,
	id string,
	params UpdateJobParams,
) (*model.Job, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.Title != nil {
		updateMap["title"] = *params.Title
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}
	if params.Location != nil {
		updateMap["location"] = *params.Location
	}
	if params.Type != nil {
		updateMap["type"] = *params.Type
	}
	if params.SalaryMin != nil {
		updateMap["salary_min"] = *params.SalaryMin
	}
	if params.SalaryMax != nil {
		updateMap["salary_max"] = *params.SalaryMax
	}
	if params.RequiredSkills != nil {
		updateMap["required_skills"] = *params.RequiredSkills
	}
	if params.RequiredExperience != nil {
		updateMap["required_experience"] = *params.RequiredExperience
	}
	if params.IsRemote != nil {
		updateMap["is_remote"] = *params.IsRemote
	}
	if params.Status != nil {
		updateMap["status"] = *params.Status
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no job fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(jobCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var job model.Job
	if err := result.Decode(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *jobMongoRepository) DeleteJob(ctx context.Context, id string) (*model.Job, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(jobCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var job model.Job
	if err := result.Decode(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *jobMongoRepository) ListJobs(ctx context.Context, params FilterJobsParams) ([]*model.Job, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	if params.Limit > 0 {
		findOptions.SetLimit(int64(params.Limit))
	}
	if params.Offset > 0 {
		findOptions.SetSkip(int64(params.Offset))
	}

	cursor, err := r.db.Collection(jobCollection).Find(ctx, buildJobFilter(params), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []*model.Job
	for cursor.Next(ctx) {
		var job model.Job
		if err := cursor.Decode(&job); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *jobMongoRepository) CountJobs(ctx context.Context, params FilterJobsParams) (int64, error) {
	return r.db.Collection(jobCollection).CountDocuments(ctx, buildJobFilter(params))
}

func (r *jobMongoRepository) PushApplication(
	ctx context.Context,
	jobID string,
	applicationID bson.ObjectID,
) error {
	objectID, err := bson.ObjectIDFromHex(jobID)
	if err != nil {
		return err
	}

	result := r.db.Collection(jobCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$push": bson.M{"applications": applicationID}},
	)

	return result.Err()
}

func (r *jobMongoRepository) PullApplication(
	ctx context.Context,
	jobID string,
	applicationID bson.ObjectID,
) error {
	objectID, err := bson.ObjectIDFromHex(jobID)
	if err != nil {
		return err
	}

	result := r.db.Collection(jobCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$pull": bson.M{"applications": applicationID}},
	)

	return result.Err()
}

// buildJobFilter translates FilterJobsParams into a Mongo filter document.
// Salary bounds are combined as a range-overlap test: the job's salary band
// must intersect the requested [min, max] interval.
func buildJobFilter(params FilterJobsParams) bson.M {
	filter := bson.M{}

	if params.Status != nil {
		filter["status"] = *params.Status
	}
	if params.EmployerID != nil {
		if objectID, err := bson.ObjectIDFromHex(*params.EmployerID); err == nil {
			filter["employer_id"] = objectID
		}
	}
	if params.Keyword != nil {
		filter["$text"] = bson.M{"$search": *params.Keyword}
	}
	if params.Location != nil {
		filter["location"] = bson.Regex{Pattern: *params.Location, Options: "i"}
	}
	if params.Type != nil {
		filter["type"] = *params.Type
	}
	if params.MinSalary != nil {
		filter["salary_max"] = bson.M{"$gte": *params.MinSalary}
	}
	if params.MaxSalary != nil {
		filter["salary_min"] = bson.M{"$lte": *params.MaxSalary}
	}

	return filter
}
