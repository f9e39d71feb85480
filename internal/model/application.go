package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationStatusReceived    ApplicationStatus = "received"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterview   ApplicationStatus = "interview"
	ApplicationStatusOffered     ApplicationStatus = "offered"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// Valid reports whether the status is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusReceived, ApplicationStatusShortlisted,
		ApplicationStatusInterview, ApplicationStatusOffered, ApplicationStatusRejected:
		return true
	}
	return false
}

// applicationTransitions encodes the forward-only review chain. Offered and
// rejected are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusReceived:    {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted: {ApplicationStatusInterview, ApplicationStatusRejected},
	ApplicationStatusInterview:   {ApplicationStatusOffered, ApplicationStatusRejected},
}

// CanTransitionTo reports whether an application may move from s to next.
// Backward and skipped transitions are not allowed.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Application relates one job to one seeker. At most one application exists
// per (JobID, SeekerID) pair, enforced by a unique compound index.
type Application struct {
	ID          bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	JobID       bson.ObjectID     `bson:"job_id"        json:"jobId"`
	SeekerID    bson.ObjectID     `bson:"seeker_id"     json:"seekerId"`
	ResumeURL   string            `bson:"resume_url"    json:"resumeUrl"`
	CoverLetter string            `bson:"cover_letter"  json:"coverLetter"`
	Status      ApplicationStatus `bson:"status"        json:"status"`
	Notes       string            `bson:"notes"         json:"notes"`
	CreatedAt   time.Time         `bson:"created_at"    json:"createdAt"`
	UpdatedAt   time.Time         `bson:"updated_at"    json:"updatedAt"`
}
