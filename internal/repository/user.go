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

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	SearchSeekers(ctx context.Context, params SearchSeekersParams) ([]*model.User, error)
	CountUsers(ctx context.Context, role *model.Role) (int64, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	Name          *string
	Phone         *string
	PasswordHash  *string
	Skills        *[]string
	Education     *[]model.Education
	Experience    *[]model.Experience
	ResumeURL     *string
	Location      *model.Location
	Company       *model.Company
	Status        *model.UserStatus
	Verified      *bool
	OTP           *string
	OTPExpiresAt  *time.Time
	OTPLastSentAt *time.Time
}

// SearchSeekersParams defines the parameters for searching seeker profiles.
// Skills match with OR semantics: a seeker qualifies when any listed skill
// appears in their profile.
type SearchSeekersParams struct {
	Skills  []string
	City    *string
	Country *string
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "skills", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"google_id": googleID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Phone != nil {
		updateMap["phone"] = *params.Phone
	}
	if params.PasswordHash != nil {
		updateMap["password_hash"] = *params.PasswordHash
	}
	if params.Skills != nil {
		updateMap["skills"] = *params.Skills
	}
	if params.Education != nil {
		updateMap["education"] = *params.Education
	}
	if params.Experience != nil {
		updateMap["experience"] = *params.Experience
	}
	if params.ResumeURL != nil {
		updateMap["resume_url"] = *params.ResumeURL
	}
	if params.Location != nil {
		updateMap["location"] = *params.Location
	}
	if params.Company != nil {
		updateMap["company"] = *params.Company
	}
	if params.Status != nil {
		updateMap["status"] = *params.Status
	}
	if params.Verified != nil {
		updateMap["verified"] = *params.Verified
	}
	if params.OTP != nil {
		updateMap["otp"] = *params.OTP
	}
	if params.OTPExpiresAt != nil {
		updateMap["otp_expires_at"] = *params.OTPExpiresAt
	}
	if params.OTPLastSentAt != nil {
		updateMap["otp_last_sent_at"] = *params.OTPLastSentAt
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(userCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userMongoRepository) SearchSeekers(
	ctx context.Context,
	params SearchSeekersParams,
) ([]*model.User, error) {
	// Build filter query
	filter := bson.M{"role": model.RoleSeeker}
	if len(params.Skills) > 0 {
		filter["skills"] = bson.M{"$in": params.Skills}
	}
	if params.City != nil {
		filter["location.city"] = bson.Regex{Pattern: *params.City, Options: "i"}
	}
	if params.Country != nil {
		filter["location.country"] = bson.Regex{Pattern: *params.Country, Options: "i"}
	}

	cursor, err := r.db.Collection(userCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var seekers []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		seekers = append(seekers, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return seekers, nil
}

func (r *userMongoRepository) CountUsers(ctx context.Context, role *model.Role) (int64, error) {
	filter := bson.M{}
	if role != nil {
		filter["role"] = *role
	}

	return r.db.Collection(userCollection).CountDocuments(ctx, filter)
}
