// Package domain defines domain-level errors for the users feature.
package domain

import "errors"

var (
	// ErrUserNotFound indicates that no user matches the given id.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that a user with the given id already exists.
	ErrUserAlreadyExists = errors.New("user already exists")
)
