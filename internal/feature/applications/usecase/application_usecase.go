// Package usecase は求人への応募と応募履歴の取得を実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"jobportal_backend/internal/feature/applications/domain"
	"jobportal_backend/internal/feature/applications/domain/entity"
	jobdomain "jobportal_backend/internal/feature/jobs/domain"
	jobentity "jobportal_backend/internal/feature/jobs/domain/entity"
)

// ApplicationRepository は応募者側から見た応募の永続化層を抽象化します。
type ApplicationRepository interface {
	// Create は応募を新規保存します。重複時は domain.ErrAlreadyApplied を返します。
	Create(ctx context.Context, app *entity.Application) error
	// ListByUser はユーザーの応募を新しい順に、求人・企業情報を埋めて返します。
	ListByUser(ctx context.Context, userID string) ([]entity.UserApplicationView, error)
}

// JobStore は応募処理が必要とする求人リポジトリの一部です。
type JobStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*jobentity.Job, error)
	AddApplicant(ctx context.Context, jobID bson.ObjectID, userID string) error
}

// ApplicationUsecase は応募者側の応募処理を扱います。
type ApplicationUsecase struct {
	apps ApplicationRepository
	jobs JobStore
	now  func() time.Time
}

// NewApplicationUsecase はApplicationUsecaseの新しいインスタンスを生成します。
func NewApplicationUsecase(apps ApplicationRepository, jobs JobStore) *ApplicationUsecase {
	return &ApplicationUsecase{apps: apps, jobs: jobs, now: time.Now}
}

// Apply は userID から jobID（16進ID）の求人への pending の応募を作成します。
//
// 不明・不正な求人IDは jobdomain.ErrJobNotFound、重複応募は domain.ErrAlreadyApplied を返します。
// 応募の保存と応募者セットの更新は別々の書き込みです。応募者セットの更新は冪等なので、
// 前回の更新が失敗していた場合は重複応募時にも再実行して補完します。
func (u *ApplicationUsecase) Apply(ctx context.Context, jobID, userID string) (*entity.Application, error) {
	oid, err := bson.ObjectIDFromHex(strings.TrimSpace(jobID))
	if err != nil {
		return nil, jobdomain.ErrJobNotFound
	}

	job, err := u.jobs.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	app := &entity.Application{
		JobID:     job.ID,
		UserID:    userID,
		CompanyID: job.CompanyID,
		Status:    entity.StatusPending,
		Date:      u.now().UTC(),
	}
	if err := u.apps.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) {
			if addErr := u.jobs.AddApplicant(ctx, job.ID, userID); addErr != nil {
				slog.Warn("record applicant on repeated application failed", "jobId", job.ID.Hex(), "userId", userID, "error", addErr)
			}
		}
		return nil, err
	}

	if err := u.jobs.AddApplicant(ctx, job.ID, userID); err != nil {
		return nil, fmt.Errorf("record applicant: %w", err)
	}
	return app, nil
}

// ListForUser は userID の応募を新しい順に返します。
func (u *ApplicationUsecase) ListForUser(ctx context.Context, userID string) ([]entity.UserApplicationView, error) {
	return u.apps.ListByUser(ctx, userID)
}
