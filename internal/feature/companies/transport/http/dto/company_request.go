// Package dto defines data transfer objects for the company dashboard HTTP API.
package dto

import jobentity "jobportal_backend/internal/feature/jobs/domain/entity"

// JobReq is the body of POST /api/company/job and PUT /api/company/job/:id.
type JobReq struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Level       string   `json:"level" binding:"required"`
	Salary      *float64 `json:"salary" binding:"required"`
}

// ToEntity converts the request. Salary must have been bound.
func (r JobReq) ToEntity() jobentity.JobUpdate {
	return jobentity.JobUpdate{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Salary:      *r.Salary,
		Category:    r.Category,
		Level:       r.Level,
	}
}

// ProfileReq is the body of PUT /api/company/profile.
type ProfileReq struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

// VisibilityReq is the body of POST /api/company/change-visibility.
type VisibilityReq struct {
	ID string `json:"id" binding:"required"`
}
