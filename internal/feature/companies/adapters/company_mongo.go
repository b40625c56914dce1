// Package adapters はcompaniesフィーチャーのMongoDBリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"jobportal_backend/internal/feature/companies/domain"
	"jobportal_backend/internal/feature/companies/domain/entity"
	"jobportal_backend/internal/feature/companies/usecase"
	platformmongo "jobportal_backend/internal/platform/mongo"
)

// CompanyMongo は companies コレクションに企業を保存します。
type CompanyMongo struct {
	companies *mongo.Collection
}

var _ usecase.CompanyRepository = (*CompanyMongo)(nil)

// NewCompanyMongo は db 上のリポジトリを生成します。
func NewCompanyMongo(db *mongo.Database) *CompanyMongo {
	return &CompanyMongo{companies: db.Collection(platformmongo.CollectionCompanies)}
}

// FindByID はIDで企業を取得します。
// 企業が存在しない場合、domain.ErrCompanyNotFoundを返します。
func (r *CompanyMongo) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByClerkID は認証基盤の組織に紐づく企業を取得します。
func (r *CompanyMongo) FindByClerkID(ctx context.Context, clerkID string) (*entity.Company, error) {
	if clerkID == "" {
		return nil, domain.ErrCompanyNotFound
	}
	return r.findOne(ctx, bson.M{"clerkId": clerkID})
}

// UpsertByClerkID は org.ClerkID に紐づく企業を作成または更新します。
// org に画像がない場合、メールアドレスとアップロード済みのロゴは維持されます。
func (r *CompanyMongo) UpsertByClerkID(ctx context.Context, org entity.Organization) (*entity.Company, error) {
	set := bson.M{"name": org.Name, "slug": org.Slug}
	update := bson.M{"$set": set}
	if org.Image != "" {
		set["image"] = org.Image
	} else {
		update["$setOnInsert"] = bson.M{"image": ""}
	}

	var company entity.Company
	err := r.companies.FindOneAndUpdate(ctx,
		bson.M{"clerkId": org.ClerkID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&company)
	if err != nil {
		return nil, fmt.Errorf("upsert company: %w", err)
	}
	return &company, nil
}

// DeleteByClerkID は clerkID に紐づく企業を削除します。
// 未知の組織の削除はエラーにしません。
func (r *CompanyMongo) DeleteByClerkID(ctx context.Context, clerkID string) error {
	if _, err := r.companies.DeleteOne(ctx, bson.M{"clerkId": clerkID}); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

// UpdateProfile は upd の空でない項目を設定します。
func (r *CompanyMongo) UpdateProfile(ctx context.Context, id bson.ObjectID, upd entity.ProfileUpdate) (*entity.Company, error) {
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
	return r.findOneAndSet(ctx, id, set)
}

// SetImage は企業ロゴを保存し、差し替え前の publicID を返します。
func (r *CompanyMongo) SetImage(ctx context.Context, id bson.ObjectID, url, publicID string) (*entity.Company, string, error) {
	var company entity.Company
	err := r.companies.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"image": url, "imagePublicId": publicID}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", domain.ErrCompanyNotFound
		}
		return nil, "", fmt.Errorf("update company: %w", err)
	}

	prev := company.ImagePublicID
	company.Image = url
	company.ImagePublicID = publicID
	return &company, prev, nil
}

func (r *CompanyMongo) findOne(ctx context.Context, filter bson.M) (*entity.Company, error) {
	var company entity.Company
	if err := r.companies.FindOne(ctx, filter).Decode(&company); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return &company, nil
}

func (r *CompanyMongo) findOneAndSet(ctx context.Context, id bson.ObjectID, set bson.M) (*entity.Company, error) {
	var company entity.Company
	err := r.companies.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("update company: %w", err)
	}
	return &company, nil
}
