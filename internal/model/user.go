package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role identifies the capability set of a user.
type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// UserStatus represents the moderation state of a user account.
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

// Education is a single education entry on a seeker profile.
type Education struct {
	Degree      string    `bson:"degree"      json:"degree"`
	Institution string    `bson:"institution" json:"institution"`
	StartDate   time.Time `bson:"start_date"  json:"startDate"`
	EndDate     time.Time `bson:"end_date"    json:"endDate"`
}

// Experience is a single work-experience entry on a seeker profile.
type Experience struct {
	Title       string    `bson:"title"       json:"title"`
	Company     string    `bson:"company"     json:"company"`
	StartDate   time.Time `bson:"start_date"  json:"startDate"`
	EndDate     time.Time `bson:"end_date"    json:"endDate"`
	Description string    `bson:"description" json:"description"`
}

// Location holds the city/country pair of a seeker profile.
type Location struct {
	City    string `bson:"city"    json:"city"`
	Country string `bson:"country" json:"country"`
}

// Company is the employer-side company sub-record.
type Company struct {
	Name     string `bson:"name"     json:"name"`
	Website  string `bson:"website"  json:"website"`
	LogoURL  string `bson:"logo_url" json:"logoUrl"`
	About    string `bson:"about"    json:"about"`
	Location string `bson:"location" json:"location"`
}

// User represents an account on the platform. Seeker-only and employer-only
// fields coexist on the same document; which ones are meaningful depends on Role.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Role         Role          `bson:"role"          json:"role"`
	Name         string        `bson:"name"          json:"name"`
	Email        string        `bson:"email"         json:"email"`
	Phone        string        `bson:"phone"         json:"phone"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	GoogleID     string        `bson:"google_id,omitempty" json:"-"`

	// Seeker fields.
	Skills     []string     `bson:"skills"     json:"skills,omitempty"`
	Education  []Education  `bson:"education"  json:"education,omitempty"`
	Experience []Experience `bson:"experience" json:"experience,omitempty"`
	ResumeURL  string       `bson:"resume_url" json:"resumeUrl,omitempty"`
	Location   Location     `bson:"location"   json:"location"`

	// Employer fields.
	Company Company `bson:"company" json:"company,omitempty"`

	Status   UserStatus `bson:"status"   json:"status"`
	Verified bool       `bson:"verified" json:"verified"`

	OTP           string    `bson:"otp,omitempty"              json:"-"`
	OTPExpiresAt  time.Time `bson:"otp_expires_at,omitempty"   json:"-"`
	OTPLastSentAt time.Time `bson:"otp_last_sent_at,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Principal is the authenticated identity threaded explicitly into every
// protected operation.
type Principal struct {
	ID   string
	Role Role
}
