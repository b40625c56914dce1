// Package adapters はapplicationsフィーチャーのMongoDBリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"jobportal_backend/internal/feature/applications/domain"
	"jobportal_backend/internal/feature/applications/domain/entity"
	"jobportal_backend/internal/feature/applications/usecase"
	platformmongo "jobportal_backend/internal/platform/mongo"
)

// ApplicationMongo は jobapplications コレクションに応募を保存します。
type ApplicationMongo struct {
	apps *mongo.Collection
}

var _ usecase.ApplicationRepository = (*ApplicationMongo)(nil)

// NewApplicationMongo は db 上のリポジトリを生成します。
func NewApplicationMongo(db *mongo.Database) *ApplicationMongo {
	return &ApplicationMongo{apps: db.Collection(platformmongo.CollectionApplications)}
}

// Create は応募を追加します。
// 同じ（求人, ユーザー）の組への2件目は domain.ErrAlreadyApplied を返します。一意インデックスにより同時実行でも成り立ちます。
func (r *ApplicationMongo) Create(ctx context.Context, app *entity.Application) error {
	if app.ID.IsZero() {
		app.ID = bson.NewObjectID()
	}
	if _, err := r.apps.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyApplied
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// ListByUser は userID の応募を、求人・企業情報を埋めて新しい順に返します。
func (r *ApplicationMongo) ListByUser(ctx context.Context, userID string) ([]entity.UserApplicationView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		lookupOne(platformmongo.CollectionJobs, "jobId", "job"),
		unwind("$job"),
		lookupOne(platformmongo.CollectionCompanies, "companyId", "company"),
		unwind("$company"),
		{{Key: "$project", Value: bson.D{
			{Key: "jobId", Value: 1},
			{Key: "userId", Value: 1},
			{Key: "companyId", Value: 1},
			{Key: "status", Value: 1},
			{Key: "date", Value: 1},
			{Key: "job._id", Value: 1},
			{Key: "job.title", Value: 1},
			{Key: "job.description", Value: 1},
			{Key: "job.location", Value: 1},
			{Key: "job.category", Value: 1},
			{Key: "job.level", Value: 1},
			{Key: "job.salary", Value: 1},
			{Key: "company._id", Value: 1},
			{Key: "company.name", Value: 1},
			{Key: "company.email", Value: 1},
			{Key: "company.image", Value: 1},
		}}},
	}

	views := []entity.UserApplicationView{}
	if err := r.aggregate(ctx, pipeline, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// ListByCompany は companyID の求人への応募を、求人・応募者情報を埋めて新しい順に返します。
func (r *ApplicationMongo) ListByCompany(ctx context.Context, companyID bson.ObjectID) ([]entity.ApplicantView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"companyId": companyID}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		lookupOne(platformmongo.CollectionJobs, "jobId", "job"),
		unwind("$job"),
		lookupOne(platformmongo.CollectionUsers, "userId", "user"),
		unwind("$user"),
		{{Key: "$project", Value: bson.D{
			{Key: "jobId", Value: 1},
			{Key: "userId", Value: 1},
			{Key: "companyId", Value: 1},
			{Key: "status", Value: 1},
			{Key: "date", Value: 1},
			{Key: "job._id", Value: 1},
			{Key: "job.title", Value: 1},
			{Key: "job.location", Value: 1},
			{Key: "job.category", Value: 1},
			{Key: "job.level", Value: 1},
			{Key: "job.salary", Value: 1},
			{Key: "user._id", Value: 1},
			{Key: "user.name", Value: 1},
			{Key: "user.image", Value: 1},
			{Key: "user.resume", Value: 1},
		}}},
	}

	views := []entity.ApplicantView{}
	if err := r.aggregate(ctx, pipeline, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// UpdateStatusOwned は companyID 宛ての応募のステータスを設定します。
// 他社宛ての応募は domain.ErrApplicationNotFound を返します。
func (r *ApplicationMongo) UpdateStatusOwned(ctx context.Context, id, companyID bson.ObjectID, status entity.Status) (*entity.Application, error) {
	var app entity.Application
	err := r.apps.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "companyId": companyID},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return &app, nil
}

// CountByJobIDs は求人ごとの応募数を1回の集計クエリで返します。
// 応募のない求人はマップに含まれません。
func (r *ApplicationMongo) CountByJobIDs(ctx context.Context, jobIDs []bson.ObjectID) (map[bson.ObjectID]int64, error) {
	counts := make(map[bson.ObjectID]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"jobId": bson.M{"$in": jobIDs}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$jobId"},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	}

	var rows []struct {
		JobID bson.ObjectID `bson:"_id"`
		Count int64         `bson:"count"`
	}
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.JobID] = row.Count
	}
	return counts, nil
}

func (r *ApplicationMongo) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := r.apps.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate applications: %w", err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode applications: %w", err)
	}
	return nil
}

func lookupOne(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

func unwind(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: path},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}
