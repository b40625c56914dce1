// Package dto defines data transfer objects for the jobs HTTP API.
package dto

import (
	"time"

	"jobportal_backend/internal/feature/jobs/domain/entity"
)

// CompanyItem is the company summary attached to a job.
type CompanyItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// JobSummary holds the job fields shared by every response form.
type JobSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Salary      float64   `json:"salary"`
	Category    string    `json:"category"`
	Level       string    `json:"level"`
	CompanyID   string    `json:"companyId"`
	Visible     bool      `json:"visible"`
	Date        time.Time `json:"date"`
}

// JobItem is a job as seen by its owning company, including the applicant ids.
type JobItem struct {
	JobSummary
	Applicants []string `json:"applicants"`
}

// JobViewItem is a job on the public board. Applicant ids are never exposed here.
type JobViewItem struct {
	JobSummary
	Company *CompanyItem `json:"company,omitempty"`
}

// NewJobSummary converts the shared fields of a job.
func NewJobSummary(j entity.Job) JobSummary {
	return JobSummary{
		ID:          j.ID.Hex(),
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Salary:      j.Salary,
		Category:    j.Category,
		Level:       j.Level,
		CompanyID:   j.CompanyID.Hex(),
		Visible:     j.Visible,
		Date:        j.Date,
	}
}

// NewJobItem converts a job to its owner response form.
func NewJobItem(j entity.Job) JobItem {
	applicants := j.Applicants
	if applicants == nil {
		applicants = []string{}
	}
	return JobItem{JobSummary: NewJobSummary(j), Applicants: applicants}
}

// NewJobViewItem converts a job view for the public board, including the company
// summary when present.
func NewJobViewItem(v entity.JobView) JobViewItem {
	item := JobViewItem{JobSummary: NewJobSummary(v.Job)}
	if v.Company != nil {
		item.Company = &CompanyItem{
			ID:    v.Company.ID.Hex(),
			Name:  v.Company.Name,
			Image: v.Company.Image,
		}
	}
	return item
}
