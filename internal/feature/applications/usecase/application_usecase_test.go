package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"jobportal_backend/internal/feature/applications/domain"
	"jobportal_backend/internal/feature/applications/domain/entity"
	"jobportal_backend/internal/feature/applications/usecase"
	jobdomain "jobportal_backend/internal/feature/jobs/domain"
	jobentity "jobportal_backend/internal/feature/jobs/domain/entity"
)

// mockApplicationRepository is a func-field mock of usecase.ApplicationRepository.
type mockApplicationRepository struct {
	CreateFunc     func(ctx context.Context, app *entity.Application) error
	ListByUserFunc func(ctx context.Context, userID string) ([]entity.UserApplicationView, error)
}

func (m *mockApplicationRepository) Create(ctx context.Context, app *entity.Application) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, app)
	}
	return nil
}

func (m *mockApplicationRepository) ListByUser(ctx context.Context, userID string) ([]entity.UserApplicationView, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

// mockJobStore is a func-field mock of usecase.JobStore.
type mockJobStore struct {
	FindByIDFunc     func(ctx context.Context, id bson.ObjectID) (*jobentity.Job, error)
	AddApplicantFunc func(ctx context.Context, jobID bson.ObjectID, userID string) error
}

func (m *mockJobStore) FindByID(ctx context.Context, id bson.ObjectID) (*jobentity.Job, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, jobdomain.ErrJobNotFound
}

func (m *mockJobStore) AddApplicant(ctx context.Context, jobID bson.ObjectID, userID string) error {
	if m.AddApplicantFunc != nil {
		return m.AddApplicantFunc(ctx, jobID, userID)
	}
	return nil
}

func TestApplicationUsecase_Apply(t *testing.T) {
	t.Parallel()

	jobID := bson.NewObjectID()
	companyID := bson.NewObjectID()
	existing := &jobentity.Job{ID: jobID, CompanyID: companyID, Title: "Go Developer"}

	t.Run("creates a pending application and records the applicant", func(t *testing.T) {
		t.Parallel()

		var created *entity.Application
		var added []string
		apps := &mockApplicationRepository{
			CreateFunc: func(ctx context.Context, app *entity.Application) error {
				created = app
				return nil
			},
		}
		jobs := &mockJobStore{
			FindByIDFunc: func(ctx context.Context, id bson.ObjectID) (*jobentity.Job, error) {
				assert.Equal(t, jobID, id)
				return existing, nil
			},
			AddApplicantFunc: func(ctx context.Context, id bson.ObjectID, userID string) error {
				assert.Equal(t, jobID, id)
				added = append(added, userID)
				return nil
			},
		}

		app, err := usecase.NewApplicationUsecase(apps, jobs).Apply(context.Background(), jobID.Hex(), "user_1")

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Same(t, created, app)
		assert.Equal(t, jobID, app.JobID)
		assert.Equal(t, companyID, app.CompanyID)
		assert.Equal(t, "user_1", app.UserID)
		assert.Equal(t, entity.StatusPending, app.Status)
		assert.False(t, app.Date.IsZero())
		assert.Equal(t, []string{"user_1"}, added)
	})

	tests := []struct {
		name        string
		jobID       string
		findErr     error
		createErr   error
		addErr      error
		expectedErr error
		expectAdd   bool
	}{
		{name: "malformed job id", jobID: "not-an-id", expectedErr: jobdomain.ErrJobNotFound},
		{name: "empty job id", jobID: "", expectedErr: jobdomain.ErrJobNotFound},
		{name: "unknown job", jobID: jobID.Hex(), findErr: jobdomain.ErrJobNotFound, expectedErr: jobdomain.ErrJobNotFound},
		{name: "already applied", jobID: jobID.Hex(), createErr: domain.ErrAlreadyApplied, expectedErr: domain.ErrAlreadyApplied, expectAdd: true},
		{name: "already applied and applicant update fails", jobID: jobID.Hex(), createErr: domain.ErrAlreadyApplied, addErr: errors.New("write failed"), expectedErr: domain.ErrAlreadyApplied, expectAdd: true},
		{name: "application insert fails", jobID: jobID.Hex(), createErr: errors.New("insert failed")},
		{name: "applicant update fails", jobID: jobID.Hex(), addErr: errors.New("write failed"), expectAdd: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			addCalled := false
			apps := &mockApplicationRepository{
				CreateFunc: func(ctx context.Context, app *entity.Application) error { return tt.createErr },
			}
			jobs := &mockJobStore{
				FindByIDFunc: func(ctx context.Context, id bson.ObjectID) (*jobentity.Job, error) {
					if tt.findErr != nil {
						return nil, tt.findErr
					}
					return existing, nil
				},
				AddApplicantFunc: func(ctx context.Context, id bson.ObjectID, userID string) error {
					addCalled = true
					return tt.addErr
				},
			}

			app, err := usecase.NewApplicationUsecase(apps, jobs).Apply(context.Background(), tt.jobID, "user_1")

			require.Error(t, err)
			assert.Nil(t, app)
			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.createErr != nil:
				assert.ErrorIs(t, err, tt.createErr)
			default:
				assert.ErrorIs(t, err, tt.addErr)
			}
			assert.Equal(t, tt.expectAdd, addCalled)
		})
	}
}

// TestApplicationUsecase_Apply_RetryRecordsApplicant は応募者セットの更新に失敗した応募を
// 再送したとき、重複応募エラーを返しつつ応募者が記録されることを検証します。
func TestApplicationUsecase_Apply_RetryRecordsApplicant(t *testing.T) {
	t.Parallel()

	jobID := bson.NewObjectID()
	existing := &jobentity.Job{ID: jobID, CompanyID: bson.NewObjectID()}

	stored := map[string]bool{}
	apps := &mockApplicationRepository{
		CreateFunc: func(ctx context.Context, app *entity.Application) error {
			if stored[app.UserID] {
				return domain.ErrAlreadyApplied
			}
			stored[app.UserID] = true
			return nil
		},
	}
	var applicants []string
	addCalls := 0
	jobs := &mockJobStore{
		FindByIDFunc: func(ctx context.Context, id bson.ObjectID) (*jobentity.Job, error) {
			return existing, nil
		},
		AddApplicantFunc: func(ctx context.Context, id bson.ObjectID, userID string) error {
			addCalls++
			if addCalls == 1 {
				return errors.New("write failed")
			}
			applicants = append(applicants, userID)
			return nil
		},
	}
	uc := usecase.NewApplicationUsecase(apps, jobs)

	_, err := uc.Apply(context.Background(), jobID.Hex(), "user_1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAlreadyApplied)
	assert.Empty(t, applicants)

	_, err = uc.Apply(context.Background(), jobID.Hex(), "user_1")
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	assert.Equal(t, []string{"user_1"}, applicants)
}

func TestApplicationUsecase_ListForUser(t *testing.T) {
	t.Parallel()

	views := []entity.UserApplicationView{{Application: entity.Application{UserID: "user_1"}}}
	apps := &mockApplicationRepository{
		ListByUserFunc: func(ctx context.Context, userID string) ([]entity.UserApplicationView, error) {
			assert.Equal(t, "user_1", userID)
			return views, nil
		},
	}

	got, err := usecase.NewApplicationUsecase(apps, &mockJobStore{}).ListForUser(context.Background(), "user_1")

	require.NoError(t, err)
	assert.Equal(t, views, got)
}
