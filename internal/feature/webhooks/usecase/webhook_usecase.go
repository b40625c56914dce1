// Package usecase は検証済みの認証基盤イベントをユーザー・企業へ反映します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	companyentity "jobportal_backend/internal/feature/companies/domain/entity"
	userentity "jobportal_backend/internal/feature/users/domain/entity"
	"jobportal_backend/internal/feature/webhooks/domain"
	"jobportal_backend/internal/feature/webhooks/domain/entity"
)

// UserStore はイベント駆動でユーザーを書き込む永続化層を抽象化します。
type UserStore interface {
	Upsert(ctx context.Context, user userentity.User) (*userentity.User, error)
	Delete(ctx context.Context, id string) error
}

// CompanyStore はイベント駆動で企業を書き込む永続化層を抽象化します。
type CompanyStore interface {
	UpsertByClerkID(ctx context.Context, org companyentity.Organization) (*companyentity.Company, error)
	DeleteByClerkID(ctx context.Context, clerkID string) error
}

// JobCacheInvalidator は公開求人の読み取りキャッシュを破棄します。
type JobCacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// WebhookUsecase はイベントを種別ごとに振り分けます。
type WebhookUsecase struct {
	users     UserStore
	companies CompanyStore
	jobCache  JobCacheInvalidator
}

// NewWebhookUsecase はWebhookUsecaseの新しいインスタンスを生成します。
// jobCache が nil の場合、キャッシュの破棄は行いません。
func NewWebhookUsecase(users UserStore, companies CompanyStore, jobCache JobCacheInvalidator) *WebhookUsecase {
	return &WebhookUsecase{users: users, companies: companies, jobCache: jobCache}
}

// Handle は evt を反映します。未対応の種別は false を返し、エラーにはしません。
func (u *WebhookUsecase) Handle(ctx context.Context, evt entity.Event) (bool, error) {
	switch evt.Type {
	case entity.TypeUserCreated, entity.TypeUserUpdated:
		var data entity.UserData
		if err := decode(evt, &data, func() string { return data.ID }); err != nil {
			return true, err
		}
		_, err := u.users.Upsert(ctx, userentity.User{
			ID:    data.ID,
			Name:  data.FullName(),
			Email: data.PrimaryEmail(),
			Image: data.ImageURL,
		})
		return true, err

	case entity.TypeUserDeleted:
		var data entity.DeletedData
		if err := decode(evt, &data, func() string { return data.ID }); err != nil {
			return true, err
		}
		return true, u.users.Delete(ctx, data.ID)

	case entity.TypeOrganizationCreated, entity.TypeOrganizationUpdated:
		var data entity.OrganizationData
		if err := decode(evt, &data, func() string { return data.ID }); err != nil {
			return true, err
		}
		_, err := u.companies.UpsertByClerkID(ctx, companyentity.Organization{
			ClerkID: data.ID,
			Name:    data.Name,
			Slug:    data.Slug,
			Image:   data.ImageURL,
		})
		if err != nil {
			return true, err
		}
		u.invalidateJobs(ctx)
		return true, nil

	case entity.TypeOrganizationDeleted:
		var data entity.DeletedData
		if err := decode(evt, &data, func() string { return data.ID }); err != nil {
			return true, err
		}
		if err := u.companies.DeleteByClerkID(ctx, data.ID); err != nil {
			return true, err
		}
		u.invalidateJobs(ctx)
		return true, nil
	}

	slog.Info("ignoring webhook event", "type", evt.Type)
	return false, nil
}

// invalidateJobs は企業名・ロゴを埋め込んだ求人キャッシュを破棄します。
func (u *WebhookUsecase) invalidateJobs(ctx context.Context) {
	if u.jobCache != nil {
		u.jobCache.Invalidate(ctx)
	}
}

// decode はイベントデータを v に展開し、空でないIDを要求します。
func decode(evt entity.Event, v any, id func() string) error {
	if err := json.Unmarshal(evt.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrMalformedEvent, evt.Type, err)
	}
	if id() == "" {
		return fmt.Errorf("%w: %s without id", domain.ErrMalformedEvent, evt.Type)
	}
	return nil
}
