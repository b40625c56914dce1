// Package dto defines data transfer objects for the applications HTTP API.
package dto

// ApplyReq is the body of POST /api/users/apply.
type ApplyReq struct {
	JobID string `json:"jobId" binding:"required"`
}

// ChangeStatusReq is the body of POST /api/company/change-status.
type ChangeStatusReq struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}
