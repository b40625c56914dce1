// Package domain defines domain-level errors for the companies feature.
package domain

import "errors"

// ErrCompanyNotFound indicates that no company matches the given id or organization id.
var ErrCompanyNotFound = errors.New("company not found")
