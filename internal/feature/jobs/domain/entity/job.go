// Package entity defines the domain models for the jobs feature.
package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Job is a position posted by a company.
// Jobs are never hard-deleted; companies hide them by clearing Visible.
type Job struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Location    string        `bson:"location" json:"location"`
	Salary      float64       `bson:"salary" json:"salary"`
	Category    string        `bson:"category" json:"category"`
	Level       string        `bson:"level" json:"level"`
	CompanyID   bson.ObjectID `bson:"companyId" json:"companyId"`
	Visible     bool          `bson:"visible" json:"visible"`
	Date        time.Time     `bson:"date" json:"date"`
	// Applicants holds the ids of users who applied.
	Applicants []string `bson:"applicants" json:"applicants"`
}

// CompanySummary is the denormalized part of the owning company shown alongside a job.
type CompanySummary struct {
	ID    bson.ObjectID `bson:"_id" json:"id"`
	Name  string        `bson:"name" json:"name"`
	Image string        `bson:"image" json:"image"`
}

// JobView is a job together with its company summary.
type JobView struct {
	Job     `bson:",inline"`
	Company *CompanySummary `bson:"company,omitempty" json:"company,omitempty"`
}

// PostedJob is a job listed on the owning company's dashboard.
type PostedJob struct {
	Job
	ApplicantCount int64 `json:"applicantCount"`
}

// JobFilter narrows a public job listing. Empty fields are ignored.
type JobFilter struct {
	Category string
	Level    string
	Location string
	// Search is matched case-insensitively as a substring of title or description.
	Search string
}

// JobUpdate carries the editable fields of a job.
type JobUpdate struct {
	Title       string
	Description string
	Location    string
	Salary      float64
	Category    string
	Level       string
}
