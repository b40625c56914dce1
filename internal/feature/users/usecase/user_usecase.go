// Package usecase は求職者プロフィールのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strings"

	"jobportal_backend/internal/feature/users/domain"
	"jobportal_backend/internal/feature/users/domain/entity"
	"jobportal_backend/internal/platform/media"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	UpdateProfile(ctx context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error)
	// SetResume は履歴書を差し替え、更新後のユーザーと差し替え前の publicID を返します。
	SetResume(ctx context.Context, id, url, publicID string) (*entity.User, string, error)
}

// MediaStore はメディアホストへのアップロードと削除を抽象化します。
type MediaStore interface {
	Upload(ctx context.Context, fh *multipart.FileHeader) (*media.Asset, error)
	Delete(ctx context.Context, publicID string) (string, error)
}

// UserUsecase はユーザープロフィールを管理します。
type UserUsecase struct {
	repo  UserRepository
	media MediaStore
}

// NewUserUsecase はUserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(repo UserRepository, store MediaStore) *UserUsecase {
	return &UserUsecase{repo: repo, media: store}
}

// GetOrCreate は id のユーザーを返し、初回サインイン時は id から作成します。
// 同時の初回呼び出しはユーザーIDをキーとする単一のレコードに収束します。
func (u *UserUsecase) GetOrCreate(ctx context.Context, id entity.Identity) (*entity.User, error) {
	if strings.TrimSpace(id.ID) == "" {
		return nil, domain.ErrUserNotFound
	}

	user, err := u.repo.FindByID(ctx, id.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user = &entity.User{ID: id.ID, Name: id.Name, Email: id.Email, Image: id.Image}
	if err := u.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return u.repo.FindByID(ctx, id.ID)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile は氏名・メールアドレスを更新します。空の値は既存の値を維持します。
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID string, upd entity.ProfileUpdate) (*entity.User, error) {
	return u.repo.UpdateProfile(ctx, userID, entity.ProfileUpdate{
		Name:  strings.TrimSpace(upd.Name),
		Email: strings.TrimSpace(upd.Email),
	})
}

// UpdateResume は fh をアップロードし、そのURLをユーザーの履歴書として保存します。
// 差し替え前の履歴書はベストエフォートで削除します。
func (u *UserUsecase) UpdateResume(ctx context.Context, userID string, fh *multipart.FileHeader) (*entity.User, error) {
	asset, err := u.media.Upload(ctx, fh)
	if err != nil {
		return nil, err
	}

	user, prevID, err := u.repo.SetResume(ctx, userID, asset.URL, asset.PublicID)
	if err != nil {
		u.deleteAsset(ctx, asset.PublicID)
		return nil, err
	}
	if prevID != asset.PublicID {
		u.deleteAsset(ctx, prevID)
	}
	return user, nil
}

func (u *UserUsecase) deleteAsset(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if _, err := u.media.Delete(ctx, publicID); err != nil {
		slog.Warn("media delete failed", "publicId", publicID, "error", err)
	}
}
