package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/prasertsakk/job-portal-api/internal/model"
)

// SavedJobRepository defines the interface for saved-job (bookmark) database
// operations. Save is an upsert on the unique (seeker_id, job_id) index, which
// makes re-saving an already-saved job a no-op rather than a duplicate.
type SavedJobRepository interface {
	UpsertSavedJob(ctx context.Context, seekerID, jobID string) (*model.SavedJob, error)
	DeleteSavedJob(ctx context.Context, seekerID, jobID string) (*model.SavedJob, error)
	ListSavedJobsBySeeker(ctx context.Context, seekerID string) ([]*model.SavedJob, error)
}

const savedJobCollection = "saved_jobs"

type savedJobMongoRepository struct {
	db *mongo.Database
}

func NewSavedJobMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) SavedJobRepository {
	collection := db.Collection(savedJobCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "seeker_id", Value: 1}, {Key: "job_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create saved job indexes")
	}

	return &savedJobMongoRepository{db: db}
}

func (r *savedJobMongoRepository) UpsertSavedJob(
	ctx context.Context,
	seekerID, jobID string,
) (*model.SavedJob, error) {
	filter, err := savedJobPairFilter(seekerID, jobID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"seeker_id":  filter["seeker_id"],
			"job_id":     filter["job_id"],
			"created_at": now,
		},
	}

	result := r.db.Collection(savedJobCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var savedJob model.SavedJob
	if err := result.Decode(&savedJob); err != nil {
		return nil, err
	}

	return &savedJob, nil
}

func (r *savedJobMongoRepository) DeleteSavedJob(
	ctx context.Context,
	seekerID, jobID string,
) (*model.SavedJob, error) {
	filter, err := savedJobPairFilter(seekerID, jobID)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(savedJobCollection).FindOneAndDelete(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var savedJob model.SavedJob
	if err := result.Decode(&savedJob); err != nil {
		return nil, err
	}

	return &savedJob, nil
}

func (r *savedJobMongoRepository) ListSavedJobsBySeeker(
	ctx context.Context,
	seekerID string,
) ([]*model.SavedJob, error) {
	objectID, err := bson.ObjectIDFromHex(seekerID)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(savedJobCollection).Find(ctx, bson.M{"seeker_id": objectID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var savedJobs []*model.SavedJob
	for cursor.Next(ctx) {
		var savedJob model.SavedJob
		if err := cursor.Decode(&savedJob); err != nil {
			return nil, err
		}
		savedJobs = append(savedJobs, &savedJob)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return savedJobs, nil
}

func savedJobPairFilter(seekerID, jobID string) (bson.M, error) {
	seekerObjectID, err := bson.ObjectIDFromHex(seekerID)
	if err != nil {
		return nil, err
	}

	jobObjectID, err := bson.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, err
	}

	return bson.M{"seeker_id": seekerObjectID, "job_id": jobObjectID}, nil
}
