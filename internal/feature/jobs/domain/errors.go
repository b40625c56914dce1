// Package domain defines domain-level errors for the jobs feature.
package domain

import "errors"

var (
	// ErrJobNotFound indicates that no job matches the given id, or that the job is not
	// owned by the calling company for owner-scoped operations.
	ErrJobNotFound = errors.New("job not found")

	// ErrMissingFields indicates that a required job field was not supplied.
	ErrMissingFields = errors.New("missing job details")

	// ErrInvalidSalary indicates a negative salary.
	ErrInvalidSalary = errors.New("salary must not be negative")
)
