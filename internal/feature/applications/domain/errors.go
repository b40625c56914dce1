// Package domain defines domain-level errors for the applications feature.
package domain

import "errors"

var (
	// ErrAlreadyApplied indicates that the user already has an application for the job.
	ErrAlreadyApplied = errors.New("already applied")

	// ErrApplicationNotFound indicates that no application matches the id, or that it
	// belongs to a different company.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrInvalidStatus indicates a status outside pending/accepted/rejected.
	ErrInvalidStatus = errors.New("invalid application status")
)
