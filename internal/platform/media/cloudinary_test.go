package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/platform/config"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
)

// fakeUploader records calls to the upload API.
type fakeUploader struct {
	UploadFunc  func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	DestroyFunc func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
	uploads     int
}

func (f *fakeUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploads++
	return f.UploadFunc(ctx, file, params)
}

func (f *fakeUploader) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	return f.DestroyFunc(ctx, params)
}

// fileHeader builds a multipart file header holding content.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestStore_Upload_Success(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{name: "png", content: pngBytes},
		{name: "jpeg", content: jpegBytes},
		{name: "pdf", content: pdfBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUploader{
				UploadFunc: func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
					assert.Equal(t, "job-portal", params.Folder)
					assert.Equal(t, "fixed-id", params.PublicID)
					assert.Equal(t, "auto", params.ResourceType)

					got, err := io.ReadAll(file.(io.Reader))
					require.NoError(t, err)
					assert.Equal(t, tt.content, got)

					return &uploader.UploadResult{SecureURL: "https://cdn/job-portal/fixed-id", PublicID: "job-portal/fixed-id"}, nil
				},
			}
			s := newStore(fake, "job-portal")
			s.newID = func() string { return "fixed-id" }

			asset, err := s.Upload(context.Background(), fileHeader(t, "upload."+tt.name, tt.content))

			require.NoError(t, err)
			assert.Equal(t, "https://cdn/job-portal/fixed-id", asset.URL)
			assert.Equal(t, "job-portal/fixed-id", asset.PublicID)
		})
	}
}

func TestStore_Upload_RejectsBeforeContactingHost(t *testing.T) {
	tests := []struct {
		name        string
		fh          func(t *testing.T) *multipart.FileHeader
		expectedErr error
	}{
		{name: "no file", fh: func(t *testing.T) *multipart.FileHeader { return nil }, expectedErr: ErrNoFile},
		{name: "empty file", fh: func(t *testing.T) *multipart.FileHeader { return fileHeader(t, "empty.png", nil) }, expectedErr: ErrNoFile},
		{name: "text disguised as png", fh: func(t *testing.T) *multipart.FileHeader {
			return fileHeader(t, "resume.png", []byte("just some plain text"))
		}, expectedErr: ErrUnsupportedType},
		{name: "gif", fh: func(t *testing.T) *multipart.FileHeader {
			return fileHeader(t, "anim.gif", append([]byte("GIF89a"), make([]byte, 16)...))
		}, expectedErr: ErrUnsupportedType},
		{name: "too large", fh: func(t *testing.T) *multipart.FileHeader {
			return fileHeader(t, "big.pdf", append(pdfBytes, make([]byte, MaxFileSize)...))
		}, expectedErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUploader{}
			s := newStore(fake, "job-portal")

			asset, err := s.Upload(context.Background(), tt.fh(t))

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, asset)
			assert.Zero(t, fake.uploads)
		})
	}
}

func TestStore_Upload_HostFailures(t *testing.T) {
	tests := []struct {
		name string
		res  *uploader.UploadResult
		err  error
	}{
		{name: "transport error", err: errors.New("dial tcp: i/o timeout")},
		{name: "error response", res: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid Signature"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUploader{
				UploadFunc: func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
					return tt.res, tt.err
				},
			}

			_, err := newStore(fake, "f").Upload(context.Background(), fileHeader(t, "a.png", pngBytes))

			assert.ErrorIs(t, err, ErrUpstream)
			assert.Equal(t, 1, fake.uploads, "no retries")
		})
	}
}

func TestStore_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeUploader{
			DestroyFunc: func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
				assert.Equal(t, "job-portal/abc", params.PublicID)
				return &uploader.DestroyResult{Result: "ok"}, nil
			},
		}

		res, err := newStore(fake, "job-portal").Delete(context.Background(), " job-portal/abc ")

		require.NoError(t, err)
		assert.Equal(t, "ok", res)
	})

	t.Run("missing public id", func(t *testing.T) {
		_, err := newStore(&fakeUploader{}, "job-portal").Delete(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrNoPublicID)
	})

	t.Run("host error", func(t *testing.T) {
		fake := &fakeUploader{
			DestroyFunc: func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
				return &uploader.DestroyResult{Error: api.ErrorResp{Message: "not found"}}, nil
			},
		}

		_, err := newStore(fake, "job-portal").Delete(context.Background(), "x")
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

func TestNewStore_Unconfigured(t *testing.T) {
	s, err := NewStore(config.CloudinaryConfig{Folder: "job-portal"})
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), fileHeader(t, "a.png", pngBytes))
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = s.Delete(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
