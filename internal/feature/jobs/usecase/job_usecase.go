// Package usecase は公開求人の参照系ビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"jobportal_backend/internal/feature/jobs/domain"
	"jobportal_backend/internal/feature/jobs/domain/entity"
)

// JobRepository は求人の永続化層（読み取り側）を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type JobRepository interface {
	// List は filter に一致する公開求人を新しい順に返します。
	List(ctx context.Context, filter entity.JobFilter) ([]entity.JobView, error)
	// FindViewByID は企業概要付きの求人を1件返します。存在しない場合は domain.ErrJobNotFound を返します。
	FindViewByID(ctx context.Context, id bson.ObjectID) (*entity.JobView, error)
}

// JobUsecase は求人一覧と求人詳細を提供します。
type JobUsecase struct {
	repo JobRepository
}

// NewJobUsecase はJobUsecaseの新しいインスタンスを生成します。
func NewJobUsecase(repo JobRepository) *JobUsecase {
	return &JobUsecase{repo: repo}
}

// ListJobs は filter に一致する求人を返します。
// 条件はトリムされ、空の条件は無視されます。
func (u *JobUsecase) ListJobs(ctx context.Context, filter entity.JobFilter) ([]entity.JobView, error) {
	filter = entity.JobFilter{
		Category: strings.TrimSpace(filter.Category),
		Level:    strings.TrimSpace(filter.Level),
		Location: strings.TrimSpace(filter.Location),
		Search:   strings.TrimSpace(filter.Search),
	}
	return u.repo.List(ctx, filter)
}

// GetJob は16進IDで指定された求人を返します。
// 不正なIDは domain.ErrJobNotFound として扱います。
func (u *JobUsecase) GetJob(ctx context.Context, id string) (*entity.JobView, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	return u.repo.FindViewByID(ctx, oid)
}
