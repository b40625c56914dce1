// Package adapters はjobsフィーチャーのMongoDBリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"jobportal_backend/internal/feature/jobs/domain"
	"jobportal_backend/internal/feature/jobs/domain/entity"
	"jobportal_backend/internal/feature/jobs/usecase"
	platformmongo "jobportal_backend/internal/platform/mongo"
)

// JobMongo は jobs コレクションに求人を保存します。
type JobMongo struct {
	jobs *mongo.Collection
}

// JobMongoが求人参照ユースケースのリポジトリを実装していることをコンパイル時に検証します。
var _ usecase.JobRepository = (*JobMongo)(nil)

// NewJobMongo は db 上のリポジトリを生成します。
func NewJobMongo(db *mongo.Database) *JobMongo {
	return &JobMongo{jobs: db.Collection(platformmongo.CollectionJobs)}
}

// Create は求人を追加し、IDを割り当てます。
func (r *JobMongo) Create(ctx context.Context, job *entity.Job) error {
	if job.ID.IsZero() {
		job.ID = bson.NewObjectID()
	}
	if job.Applicants == nil {
		job.Applicants = []string{}
	}
	if _, err := r.jobs.InsertOne(ctx, job); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// FindByID は企業情報を含まない求人ドキュメントを返します。
func (r *JobMongo) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Job, error) {
	var job entity.Job
	if err := r.jobs.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return &job, nil
}

// FindViewByID は企業概要付きの求人を返します。
func (r *JobMongo) FindViewByID(ctx context.Context, id bson.ObjectID) (*entity.JobView, error) {
	views, err := r.aggregateViews(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, domain.ErrJobNotFound
	}
	return &views[0], nil
}

// List は filter に一致する公開求人を、企業概要付きで新しい順に返します。
func (r *JobMongo) List(ctx context.Context, filter entity.JobFilter) ([]entity.JobView, error) {
	return r.aggregateViews(ctx, BuildListFilter(filter))
}

// ListByCompany は companyID が所有するすべての求人（非公開を含む）を新しい順に返します。
func (r *JobMongo) ListByCompany(ctx context.Context, companyID bson.ObjectID) ([]entity.Job, error) {
	cur, err := r.jobs.Find(ctx,
		bson.M{"companyId": companyID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find company jobs: %w", err)
	}
	jobs := []entity.Job{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("decode company jobs: %w", err)
	}
	return jobs, nil
}

// UpdateOwned は companyID が所有する求人の編集可能な項目を上書きし、更新後のドキュメントを返します。
// 他社の求人は見つからないものとして扱います。
func (r *JobMongo) UpdateOwned(ctx context.Context, id, companyID bson.ObjectID, upd entity.JobUpdate) (*entity.Job, error) {
	set := bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"location":    upd.Location,
		"salary":      upd.Salary,
		"category":    upd.Category,
		"level":       upd.Level,
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "companyId": companyID}, bson.M{"$set": set})
}

// ToggleVisibility は companyID が所有する求人の公開フラグを1回の書き込みで反転します。
func (r *JobMongo) ToggleVisibility(ctx context.Context, id, companyID bson.ObjectID) (*entity.Job, error) {
	toggle := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"visible": bson.M{"$not": bson.A{"$visible"}}}}},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "companyId": companyID}, toggle)
}

// AddApplicant は求人の応募者セットに userID を記録します（冪等）。
func (r *JobMongo) AddApplicant(ctx context.Context, jobID bson.ObjectID, userID string) error {
	res, err := r.jobs.UpdateOne(ctx,
		bson.M{"_id": jobID},
		bson.M{"$addToSet": bson.M{"applicants": userID}},
	)
	if err != nil {
		return fmt.Errorf("add applicant: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobMongo) findOneAndUpdate(ctx context.Context, filter, update any) (*entity.Job, error) {
	var job entity.Job
	err := r.jobs.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return &job, nil
}

// aggregateViews matches jobs, sorts newest first, and joins the owning company.
// Only the company's id, name and image survive the projection.
func (r *JobMongo) aggregateViews(ctx context.Context, match any) ([]entity.JobView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: platformmongo.CollectionCompanies},
			{Key: "localField", Value: "companyId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "company"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$company"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "company.email", Value: 0},
			{Key: "company.password", Value: 0},
			{Key: "company.clerkId", Value: 0},
			{Key: "company.slug", Value: 0},
		}}},
	}

	cur, err := r.jobs.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate jobs: %w", err)
	}
	views := []entity.JobView{}
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return views, nil
}

// BuildListFilter translates a public listing filter into a query document.
// Only visible jobs are listed. Search text is escaped so it matches literally.
func BuildListFilter(f entity.JobFilter) bson.D {
	q := bson.D{{Key: "visible", Value: true}}
	if f.Category != "" {
		q = append(q, bson.E{Key: "category", Value: f.Category})
	}
	if f.Level != "" {
		q = append(q, bson.E{Key: "level", Value: f.Level})
	}
	if f.Location != "" {
		q = append(q, bson.E{Key: "location", Value: f.Location})
	}
	if f.Search != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q = append(q, bson.E{Key: "$or", Value: bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}})
	}
	return q
}
