package media

import "errors"

var (
	// ErrNoFile is returned when no file was supplied.
	ErrNoFile = errors.New("media: no file provided")
	// ErrNoPublicID is returned by Delete without a public id.
	ErrNoPublicID = errors.New("media: no public id provided")
	// ErrUnsupportedType is returned for content other than jpeg, png or pdf.
	ErrUnsupportedType = errors.New("media: unsupported file type")
	// ErrTooLarge is returned for files over MaxFileSize.
	ErrTooLarge = errors.New("media: file too large")
	// ErrUpstream wraps failures reported by the media host.
	ErrUpstream = errors.New("media: upload host error")
	// ErrNotConfigured is returned when no host credentials are configured.
	ErrNotConfigured = errors.New("media: host credentials not configured")
)
