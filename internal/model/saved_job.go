package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SavedJob is a seeker's bookmark of a job. Pure bookmark semantics, no review
// state. At most one record exists per (SeekerID, JobID) pair, enforced by a
// unique compound index.
type SavedJob struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	SeekerID  bson.ObjectID `bson:"seeker_id"     json:"seekerId"`
	JobID     bson.ObjectID `bson:"job_id"        json:"jobId"`
	CreatedAt time.Time     `bson:"created_at"    json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at"    json:"updatedAt"`
}
