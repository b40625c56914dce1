// Package media uploads user files (logos, resumes) to the media host.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"jobportal_backend/internal/platform/config"
)

// Asset is a stored file.
type Asset struct {
	URL      string
	PublicID string
}

// uploaderAPI is the subset of the Cloudinary upload API the store uses.
type uploaderAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Store uploads and deletes files on Cloudinary.
type Store struct {
	api    uploaderAPI
	folder string
	newID  func() string
}

// NewStore creates a Store from cfg. Incomplete credentials yield a Store whose calls
// fail with ErrNotConfigured.
func NewStore(cfg config.CloudinaryConfig) (*Store, error) {
	if !cfg.Complete() {
		slog.Warn("Cloudinary credentials not set; uploads are disabled")
		return &Store{folder: cfg.Folder, newID: uuid.NewString}, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return newStore(&cld.Upload, cfg.Folder), nil
}

func newStore(api uploaderAPI, folder string) *Store {
	return &Store{api: api, folder: folder, newID: uuid.NewString}
}

// Upload validates fh and uploads it under a random public id in the configured folder.
func (s *Store) Upload(ctx context.Context, fh *multipart.FileHeader) (*Asset, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	if fh.Size > MaxFileSize {
		return nil, ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, contentType, err := readValidated(f)
	if err != nil {
		return nil, err
	}
	if s.api == nil {
		return nil, ErrNotConfigured
	}

	res, err := s.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     s.newID(),
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, res.Error.Message)
	}

	slog.Info("media uploaded", "public_id", res.PublicID, "content_type", contentType, "bytes", len(data))
	return &Asset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete removes the asset with publicID and returns the host's result string.
func (s *Store) Delete(ctx context.Context, publicID string) (string, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return "", ErrNoPublicID
	}
	if s.api == nil {
		return "", ErrNotConfigured
	}

	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUpstream, res.Error.Message)
	}
	return res.Result, nil
}
