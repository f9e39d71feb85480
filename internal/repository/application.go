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

// ApplicationRepository defines the interface for application-related database
// operations. The unique (job_id, seeker_id) index is the authoritative guard
// against duplicate applications; callers must treat the resulting duplicate
// key error as a conflict, not a failure.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, application *model.Application) (*model.Application, error)
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	GetApplicationByJobAndSeeker(ctx context.Context, jobID, seekerID string) (*model.Application, error)
	DeleteApplicationByJobAndSeeker(ctx context.Context, jobID, seekerID string) (*model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, params UpdateApplicationStatusParams) (*model.Application, error)
	ListApplicationsBySeeker(ctx context.Context, seekerID string) ([]*model.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	CountApplications(ctx context.Context) (int64, error)
}

// UpdateApplicationStatusParams defines the parameters for advancing an
// application's review status.
type UpdateApplicationStatusParams struct {
	Status model.ApplicationStatus
	Notes  *string
}

const applicationCollection = "applications"

type applicationMongoRepository struct {
	db *mongo.Database
}

func NewApplicationMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) ApplicationRepository {
	collection := db.Collection(applicationCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "seeker_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "seeker_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create application indexes")
	}

	return &applicationMongoRepository{db: db}
}

func (r *applicationMongoRepository) CreateApplication(
	ctx context.Context,
	application *model.Application,
) (*model.Application, error) {
	now := time.Now()
	application.CreatedAt = now
	application.UpdatedAt = now

	result, err := r.db.Collection(applicationCollection).InsertOne(ctx, application)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		application.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return application, nil
}

func (r *applicationMongoRepository) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(applicationCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var application model.Application
	if err := result.Decode(&application); err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationMongoRepository) GetApplicationByJobAndSeeker(
	ctx context.Context,
	jobID, seekerID string,
) (*model.Application, error) {
	filter, err := applicationPairFilter(jobID, seekerID)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(applicationCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var application model.Application
	if err := result.Decode(&application); err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationMongoRepository) DeleteApplicationByJobAndSeeker(
	ctx context.Context,
	jobID, seekerID string,
) (*model.Application, error) {
	filter, err := applicationPairFilter(jobID, seekerID)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(applicationCollection).FindOneAndDelete(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var application model.Application
	if err := result.Decode(&application); err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationMongoRepository) UpdateApplicationStatus(
	ctx context.Context,
	id string,
	params UpdateApplicationStatusParams,
) (*model.Application, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{
		"status":     params.Status,
		"updated_at": time.Now(),
	}
	if params.Notes != nil {
		updateMap["notes"] = *params.Notes
	}

	result := r.db.Collection(applicationCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var application model.Application
	if err := result.Decode(&application); err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationMongoRepository) ListApplicationsBySeeker(
	ctx context.Context,
	seekerID string,
) ([]*model.Application, error) {
	objectID, err := bson.ObjectIDFromHex(seekerID)
	if err != nil {
		return nil, err
	}

	return r.listApplications(ctx, bson.M{"seeker_id": objectID})
}

func (r *applicationMongoRepository) ListApplicationsByJob(
	ctx context.Context,
	jobID string,
) ([]*model.Application, error) {
	objectID, err := bson.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, err
	}

	return r.listApplications(ctx, bson.M{"job_id": objectID})
}

func (r *applicationMongoRepository) CountApplications(ctx context.Context) (int64, error) {
	return r.db.Collection(applicationCollection).CountDocuments(ctx, bson.M{})
}

func (r *applicationMongoRepository) listApplications(
	ctx context.Context,
	filter bson.M,
) ([]*model.Application, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(applicationCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var applications []*model.Application
	for cursor.Next(ctx) {
		var application model.Application
		if err := cursor.Decode(&application); err != nil {
			return nil, err
		}
		applications = append(applications, &application)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

func applicationPairFilter(jobID, seekerID string) (bson.M, error) {
	jobObjectID, err := bson.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, err
	}

	seekerObjectID, err := bson.ObjectIDFromHex(seekerID)
	if err != nil {
		return nil, err
	}

	return bson.M{"job_id": jobObjectID, "seeker_id": seekerObjectID}, nil
}
