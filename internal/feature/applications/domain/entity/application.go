// Package entity defines the domain models for the applications feature.
package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Status is the review state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application links a user to a job. CompanyID is copied from the job at creation time
// so company dashboards can query without a join.
// At most one application exists per (JobID, UserID).
type Application struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID     bson.ObjectID `bson:"jobId" json:"jobId"`
	UserID    string        `bson:"userId" json:"userId"`
	CompanyID bson.ObjectID `bson:"companyId" json:"companyId"`
	Status    Status        `bson:"status" json:"status"`
	Date      time.Time     `bson:"date" json:"date"`
}

// JobSummary is the job data populated into application listings.
type JobSummary struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description,omitempty"`
	Location    string        `bson:"location" json:"location"`
	Category    string        `bson:"category" json:"category"`
	Level       string        `bson:"level" json:"level"`
	Salary      float64       `bson:"salary" json:"salary"`
}

// ApplicantSummary is the user data populated into a company's applicant listing.
type ApplicantSummary struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Image  string `bson:"image" json:"image"`
	Resume string `bson:"resume" json:"resume"`
}

// CompanySummary is the company data populated into a user's application listing.
type CompanySummary struct {
	ID    bson.ObjectID `bson:"_id" json:"id"`
	Name  string        `bson:"name" json:"name"`
	Email string        `bson:"email" json:"email"`
	Image string        `bson:"image" json:"image"`
}

// ApplicantView is an application as seen by the hiring company.
type ApplicantView struct {
	Application `bson:",inline"`
	Job         *JobSummary       `bson:"job,omitempty" json:"job"`
	User        *ApplicantSummary `bson:"user,omitempty" json:"user"`
}

// UserApplicationView is an application as seen by the applicant.
type UserApplicationView struct {
	Application `bson:",inline"`
	Job         *JobSummary     `bson:"job,omitempty" json:"job"`
	Company     *CompanySummary `bson:"company,omitempty" json:"company"`
}
