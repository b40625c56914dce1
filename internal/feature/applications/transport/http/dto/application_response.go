package dto

import (
	"time"

	"jobportal_backend/internal/feature/applications/domain/entity"
)

// JobSummaryItem is the job attached to an application.
type JobSummaryItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	Level       string  `json:"level"`
	Salary      float64 `json:"salary"`
}

// CompanySummaryItem is the company attached to a user's application.
type CompanySummaryItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// ApplicantItem is the user attached to a company's applicant listing.
type ApplicantItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Resume string `json:"resume"`
}

// ApplicationItem is an application in API responses. Job, Company and User are
// populated depending on who is asking.
type ApplicationItem struct {
	ID        string              `json:"id"`
	JobID     string              `json:"jobId"`
	UserID    string              `json:"userId"`
	CompanyID string              `json:"companyId"`
	Status    string              `json:"status"`
	Date      time.Time           `json:"date"`
	Job       *JobSummaryItem     `json:"job,omitempty"`
	Company   *CompanySummaryItem `json:"company,omitempty"`
	User      *ApplicantItem      `json:"user,omitempty"`
}

// NewApplicationItem converts the bare application.
func NewApplicationItem(a entity.Application) ApplicationItem {
	return ApplicationItem{
		ID:        a.ID.Hex(),
		JobID:     a.JobID.Hex(),
		UserID:    a.UserID,
		CompanyID: a.CompanyID.Hex(),
		Status:    string(a.Status),
		Date:      a.Date,
	}
}

// NewUserApplicationItem converts an application as seen by the applicant.
func NewUserApplicationItem(v entity.UserApplicationView) ApplicationItem {
	item := NewApplicationItem(v.Application)
	item.Job = newJobSummaryItem(v.Job)
	if v.Company != nil {
		item.Company = &CompanySummaryItem{
			ID:    v.Company.ID.Hex(),
			Name:  v.Company.Name,
			Email: v.Company.Email,
			Image: v.Company.Image,
		}
	}
	return item
}

// NewApplicantItem converts an application as seen by the hiring company.
func NewApplicantItem(v entity.ApplicantView) ApplicationItem {
	item := NewApplicationItem(v.Application)
	item.Job = newJobSummaryItem(v.Job)
	if v.User != nil {
		item.User = &ApplicantItem{
			ID:     v.User.ID,
			Name:   v.User.Name,
			Image:  v.User.Image,
			Resume: v.User.Resume,
		}
	}
	return item
}

func newJobSummaryItem(j *entity.JobSummary) *JobSummaryItem {
	if j == nil {
		return nil
	}
	return &JobSummaryItem{
		ID:          j.ID.Hex(),
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Category:    j.Category,
		Level:       j.Level,
		Salary:      j.Salary,
	}
}
