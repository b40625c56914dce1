// Package dto defines data transfer objects for the users HTTP API.
package dto

import "jobportal_backend/internal/feature/users/domain/entity"

// ProfileReq is the body of PUT /api/users/profile.
type ProfileReq struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

// UserItem is a user in API responses.
type UserItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Image  string `json:"image"`
	Resume string `json:"resume"`
}

// NewUserItem converts a user.
func NewUserItem(u entity.User) UserItem {
	return UserItem{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image, Resume: u.Resume}
}
