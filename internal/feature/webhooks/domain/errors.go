// Package domain defines domain-level errors for the webhooks feature.
package domain

import "errors"

var (
	// ErrInvalidSignature indicates that the payload signature did not verify.
	ErrInvalidSignature = errors.New("webhook signature verification failed")

	// ErrNotConfigured indicates that no signing secret is configured.
	ErrNotConfigured = errors.New("webhook secret not configured")

	// ErrMalformedEvent indicates a verified payload that does not decode.
	ErrMalformedEvent = errors.New("malformed webhook event")
)
