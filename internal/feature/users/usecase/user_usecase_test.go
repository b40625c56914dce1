package usecase_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/feature/users/domain"
	"jobportal_backend/internal/feature/users/domain/entity"
	"jobportal_backend/internal/feature/users/usecase"
	"jobportal_backend/internal/platform/media"
)

type mockUserRepository struct {
	FindByIDFunc      func(ctx context.Context, id string) (*entity.User, error)
	CreateFunc        func(ctx context.Context, user *entity.User) error
	UpdateProfileFunc func(ctx context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error)
	SetResumeFunc     func(ctx context.Context, id, url, publicID string) (*entity.User, string, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error) {
	return m.UpdateProfileFunc(ctx, id, upd)
}

func (m *mockUserRepository) SetResume(ctx context.Context, id, url, publicID string) (*entity.User, string, error) {
	return m.SetResumeFunc(ctx, id, url, publicID)
}

type mockMediaStore struct {
	UploadFunc func(ctx context.Context, fh *multipart.FileHeader) (*media.Asset, error)
	deleted    []string
}

func (m *mockMediaStore) Upload(ctx context.Context, fh *multipart.FileHeader) (*media.Asset, error) {
	return m.UploadFunc(ctx, fh)
}

func (m *mockMediaStore) Delete(ctx context.Context, publicID string) (string, error) {
	m.deleted = append(m.deleted, publicID)
	return "ok", nil
}

var ada = entity.Identity{ID: "user_1", Name: "Ada", Email: "ada@example.com", Image: "ada.png"}

func TestUserUsecase_GetOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("returns the existing user without writing", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				return &entity.User{ID: id, Name: "Stored", Resume: "cv.pdf"}, nil
			},
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				t.Error("Create must not be called")
				return nil
			},
		}

		user, err := usecase.NewUserUsecase(repo, nil).GetOrCreate(context.Background(), ada)

		require.NoError(t, err)
		assert.Equal(t, "Stored", user.Name)
	})

	t.Run("creates the user from the identity on first sign-in", func(t *testing.T) {
		t.Parallel()

		var created *entity.User
		repo := &mockUserRepository{CreateFunc: func(ctx context.Context, user *entity.User) error {
			created = user
			return nil
		}}

		user, err := usecase.NewUserUsecase(repo, nil).GetOrCreate(context.Background(), ada)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, &entity.User{ID: "user_1", Name: "Ada", Email: "ada@example.com", Image: "ada.png"}, user)
	})

	t.Run("a concurrent creation is re-read", func(t *testing.T) {
		t.Parallel()

		finds := 0
		repo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				finds++
				if finds == 1 {
					return nil, domain.ErrUserNotFound
				}
				return &entity.User{ID: id, Name: "Winner"}, nil
			},
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return domain.ErrUserAlreadyExists
			},
		}

		user, err := usecase.NewUserUsecase(repo, nil).GetOrCreate(context.Background(), ada)

		require.NoError(t, err)
		assert.Equal(t, "Winner", user.Name)
		assert.Equal(t, 2, finds)
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		repo := &mockUserRepository{FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			return nil, boom
		}}

		_, err := usecase.NewUserUsecase(repo, nil).GetOrCreate(context.Background(), ada)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("blank identity", func(t *testing.T) {
		t.Parallel()

		_, err := usecase.NewUserUsecase(&mockUserRepository{}, nil).GetOrCreate(context.Background(), entity.Identity{})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserUsecase_UpdateProfile(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepository{UpdateProfileFunc: func(ctx context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error) {
		assert.Equal(t, entity.ProfileUpdate{Name: "Ada L."}, upd)
		return &entity.User{ID: id, Name: upd.Name}, nil
	}}

	user, err := usecase.NewUserUsecase(repo, nil).UpdateProfile(context.Background(), "user_1", entity.ProfileUpdate{Name: " Ada L. ", Email: "  "})

	require.NoError(t, err)
	assert.Equal(t, "Ada L.", user.Name)
}

func TestUserUsecase_UpdateResume(t *testing.T) {
	t.Parallel()

	t.Run("stores the uploaded URL and deletes the replaced resume", func(t *testing.T) {
		t.Parallel()

		store := &mockMediaStore{UploadFunc: func(ctx context.Context, fh *multipart.FileHeader) (*media.Asset, error) {
			return &media.Asset{URL: "https://cdn/cv.pdf", PublicID: "job-portal/cv2"}, nil
		}}
		repo := &mockUserRepository{SetResumeFunc: func(ctx context.Context, id, url, publicID string) (*entity.User, string, error) {
			assert.Equal(t, "job-portal/cv2", publicID)
			return &entity.User{ID: id, Resume: url, ResumePublicID: publicID}, "job-portal/cv1", nil
		}}

		user, err := usecase.NewUserUsecase(repo, store).UpdateResume(context.Background(), "user_1", &multipart.FileHeader{})

		require.NoError(t, err)
		assert.Equal(t, "https://cdn/cv.pdf", user.Resume)
		assert.Equal(t, []string{"job-portal/cv1"}, store.deleted)
	})

	t.Run("first resume deletes nothing", func(t *testing.T) {
		t.Parallel()

		store := &mockMediaStore{UploadFunc: func(ctx context.Context, fh *multipart.FileHeader) (*media.Asset, error) {
			return &media.Asset{URL: "https://cdn/cv.pdf", PublicID: "job-portal/cv1"}, nil
		}}
		repo := &mockUserRepository{SetResumeFunc: func(ctx context.Context, id, url, publicID string) (*entity.User, string, error) {
			return &entity.User{ID: id, Resume: url}, "", nil
		}}

		_, err := usecase.NewUserUsecase(repo, store).UpdateResume(context.Background(), "user_1", &multipart.FileHeader{})

		require.NoError(t, err)
		assert.Empty(t, store.deleted)
	})

	t.Run("failed profile write removes the new upload", func(t *testing.T) {
		t.Parallel()

		store := &mockMediaStore{UploadFunc: func(ctx context.Context, fh *multipart.FileHeader) (*media.Asset, error) {
			return &media.Asset{URL: "https://cdn/cv.pdf", PublicID: "job-portal/cv1"}, nil
		}}
		repo := &mockUserRepository{SetResumeFunc: func(ctx context.Context, id, url, publicID string) (*entity.User, string, error) {
			return nil, "", domain.ErrUserNotFound
		}}

		_, err := usecase.NewUserUsecase(repo, store).UpdateResume(context.Background(), "user_1", &multipart.FileHeader{})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Equal(t, []string{"job-portal/cv1"}, store.deleted)
	})

	t.Run("upload failure leaves the profile alone", func(t *testing.T) {
		t.Parallel()

		store := &mockMediaStore{UploadFunc: func(ctx context.Context, fh *multipart.FileHeader) (*media.Asset, error) {
			return nil, media.ErrNoFile
		}}
		repo := &mockUserRepository{SetResumeFunc: func(ctx context.Context, id, url, publicID string) (*entity.User, string, error) {
			t.Error("SetResume must not be called")
			return nil, "", nil
		}}

		_, err := usecase.NewUserUsecase(repo, store).UpdateResume(context.Background(), "user_1", nil)
		assert.ErrorIs(t, err, media.ErrNoFile)
	})
}
