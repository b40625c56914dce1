// Package adapters はusersフィーチャーのMongoDBリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"jobportal_backend/internal/feature/users/domain"
	"jobportal_backend/internal/feature/users/domain/entity"
	"jobportal_backend/internal/feature/users/usecase"
	platformmongo "jobportal_backend/internal/platform/mongo"
)

// UserMongo は認証基盤のユーザーIDをキーとして users コレクションにユーザーを保存します。
type UserMongo struct {
	users *mongo.Collection
}

var _ usecase.UserRepository = (*UserMongo)(nil)

// NewUserMongo は db 上のリポジトリを生成します。
func NewUserMongo(db *mongo.Database) *UserMongo {
	return &UserMongo{users: db.Collection(platformmongo.CollectionUsers)}
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *UserMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Create はユーザーを追加します。
// 同じIDのユーザーが既に存在する場合、domain.ErrUserAlreadyExistsを返します。
func (r *UserMongo) Create(ctx context.Context, user *entity.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Upsert はユーザーの認証基盤由来の項目を書き込み、存在しない場合は作成します。
// 保存済みの履歴書は変更しません。
func (r *UserMongo) Upsert(ctx context.Context, user entity.User) (*entity.User, error) {
	var out entity.User
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$set":         bson.M{"name": user.Name, "email": user.Email, "image": user.Image},
			"$setOnInsert": bson.M{"resume": ""},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &out, nil
}

// Delete はIDでユーザーを削除します。未知のユーザーの削除はエラーにしません。
func (r *UserMongo) Delete(ctx context.Context, id string) error {
	if _, err := r.users.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// UpdateProfile は upd の空でない項目を設定します。
func (r *UserMongo) UpdateProfile(ctx context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error) {
	set := bson.M{}
	if name := strings.TrimSpace(upd.Name); name != "" {
		set["name"] = name
	}
	if email := strings.TrimSpace(upd.Email); email != "" {
		set["email"] = email
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.set(ctx, id, set)
}

// SetResume は履歴書を保存し、差し替え前の publicID を返します。
func (r *UserMongo) SetResume(ctx context.Context, id, url, publicID string) (*entity.User, string, error) {
	var user entity.User
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"resume": url, "resumePublicId": publicID}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("update user: %w", err)
	}

	prev := user.ResumePublicID
	user.Resume = url
	user.ResumePublicID = publicID
	return &user, prev, nil
}

func (r *UserMongo) set(ctx context.Context, id string, fields bson.M) (*entity.User, error) {
	var user entity.User
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}
