package dto

import (
	"jobportal_backend/internal/feature/companies/domain/entity"
	jobentity "jobportal_backend/internal/feature/jobs/domain/entity"
	jobdto "jobportal_backend/internal/feature/jobs/transport/http/dto"
)

// CompanyItem is the company profile in API responses.
type CompanyItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
	Slug  string `json:"slug,omitempty"`
}

// NewCompanyItem converts a company. The legacy password hash is never exposed.
func NewCompanyItem(c entity.Company) CompanyItem {
	return CompanyItem{
		ID:    c.ID.Hex(),
		Name:  c.Name,
		Email: c.Email,
		Image: c.Image,
		Slug:  c.Slug,
	}
}

// PostedJobItem is a job on the company dashboard.
type PostedJobItem struct {
	jobdto.JobItem
	ApplicantCount int64 `json:"applicantCount"`
}

// NewPostedJobItem converts a posted job.
func NewPostedJobItem(p jobentity.PostedJob) PostedJobItem {
	return PostedJobItem{JobItem: jobdto.NewJobItem(p.Job), ApplicantCount: p.ApplicantCount}
}
