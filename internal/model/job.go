package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// JobType is the employment type of a job posting.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeRemote     JobType = "Remote"
)

// Valid reports whether the job type is one of the known types.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeRemote:
		return true
	}
	return false
}

// JobStatus represents the publication state of a job posting. Only active
// jobs appear in public search.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

// Valid reports whether the status is one of the known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusPaused, JobStatusClosed:
		return true
	}
	return false
}

// Job represents a posted position owned by exactly one employer.
//
// Applications holds the ids of applications received for this job. It is a
// denormalized cache kept for display; the authoritative relation is
// Application.JobID, and readers that need correctness must query the
// applications collection instead of trusting this list.
type Job struct {
	ID                 bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	EmployerID         bson.ObjectID   `bson:"employer_id"   json:"employerId"`
	Title              string          `bson:"title"         json:"title"`
	Description        string          `bson:"description"   json:"description"`
	Location           string          `bson:"location"      json:"location"`
	Type               JobType         `bson:"type"          json:"type"`
	SalaryMin          int64           `bson:"salary_min"    json:"salaryMin"`
	SalaryMax          int64           `bson:"salary_max"    json:"salaryMax"`
	RequiredSkills     []string        `bson:"required_skills"     json:"requiredSkills"`
	RequiredExperience int             `bson:"required_experience" json:"requiredExperience"`
	IsRemote           bool            `bson:"is_remote"     json:"isRemote"`
	Status             JobStatus       `bson:"status"        json:"status"`
	Applications       []bson.ObjectID `bson:"applications"  json:"applications"`
	CreatedAt          time.Time       `bson:"created_at"    json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updated_at"    json:"updatedAt"`
}
