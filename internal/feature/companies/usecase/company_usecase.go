// Package usecase は企業ダッシュボード（プロフィール・掲載求人・応募者）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	appdomain "jobportal_backend/internal/feature/applications/domain"
	appentity "jobportal_backend/internal/feature/applications/domain/entity"
	"jobportal_backend/internal/feature/companies/domain/entity"
	jobdomain "jobportal_backend/internal/feature/jobs/domain"
	jobentity "jobportal_backend/internal/feature/jobs/domain/entity"
	"jobportal_backend/internal/platform/media"
)

// CompanyRepository は企業エンティティの永続化層を抽象化します。
type CompanyRepository interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.Company, error)
	UpdateProfile(ctx context.Context, id bson.ObjectID, upd entity.ProfileUpdate) (*entity.Company, error)
	// SetImage はロゴを差し替え、更新後の企業と差し替え前のロゴの publicID を返します。
	SetImage(ctx context.Context, id bson.ObjectID, url, publicID string) (*entity.Company, string, error)
}

// JobRepository は掲載企業側から見た求人の永続化層を抽象化します。
type JobRepository interface {
	Create(ctx context.Context, job *jobentity.Job) error
	ListByCompany(ctx context.Context, companyID bson.ObjectID) ([]jobentity.Job, error)
	// UpdateOwned and ToggleVisibility report jobs of other companies as jobdomain.ErrJobNotFound.
	UpdateOwned(ctx context.Context, id, companyID bson.ObjectID, upd jobentity.JobUpdate) (*jobentity.Job, error)
	ToggleVisibility(ctx context.Context, id, companyID bson.ObjectID) (*jobentity.Job, error)
}

// ApplicationRepository は選考側から見た応募の永続化層を抽象化します。
type ApplicationRepository interface {
	ListByCompany(ctx context.Context, companyID bson.ObjectID) ([]appentity.ApplicantView, error)
	UpdateStatusOwned(ctx context.Context, id, companyID bson.ObjectID, status appentity.Status) (*appentity.Application, error)
	CountByJobIDs(ctx context.Context, jobIDs []bson.ObjectID) (map[bson.ObjectID]int64, error)
}

// MediaStore はメディアホストへのアップロードと削除を抽象化します。
type MediaStore interface {
	Upload(ctx context.Context, fh *multipart.FileHeader) (*media.Asset, error)
	Delete(ctx context.Context, publicID string) (string, error)
}

// JobCacheInvalidator は公開求人の読み取りキャッシュを破棄します。
// 求人一覧には企業名とロゴが埋め込まれるため、プロフィール変更時に呼び出します。
type JobCacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// CompanyUsecase は企業ダッシュボードのユースケースです。
// すべての操作は呼び出し元の企業にスコープされます。
type CompanyUsecase struct {
	companies CompanyRepository
	jobs      JobRepository
	apps      ApplicationRepository
	media     MediaStore
	jobCache  JobCacheInvalidator
	now       func() time.Time
}

// NewCompanyUsecase はCompanyUsecaseの新しいインスタンスを生成します。
// jobCache が nil の場合、キャッシュの破棄は行いません。
func NewCompanyUsecase(companies CompanyRepository, jobs JobRepository, apps ApplicationRepository, store MediaStore, jobCache JobCacheInvalidator) *CompanyUsecase {
	return &CompanyUsecase{
		companies: companies,
		jobs:      jobs,
		apps:      apps,
		media:     store,
		jobCache:  jobCache,
		now:       time.Now,
	}
}

// GetCompany は companyID の現在のプロフィールを返します。
func (u *CompanyUsecase) GetCompany(ctx context.Context, companyID bson.ObjectID) (*entity.Company, error) {
	return u.companies.FindByID(ctx, companyID)
}

// UpdateCompany は企業名・メールアドレスを更新します。空の値は既存の値を維持します。
func (u *CompanyUsecase) UpdateCompany(ctx context.Context, companyID bson.ObjectID, upd entity.ProfileUpdate) (*entity.Company, error) {
	company, err := u.companies.UpdateProfile(ctx, companyID, entity.ProfileUpdate{
		Name:  strings.TrimSpace(upd.Name),
		Email: strings.TrimSpace(upd.Email),
	})
	if err != nil {
		return nil, err
	}
	u.invalidateJobs(ctx)
	return company, nil
}

// UploadLogo は fh をメディアホストへアップロードし、企業ロゴとして設定します。
// 差し替え前のロゴはベストエフォートで削除します。
func (u *CompanyUsecase) UploadLogo(ctx context.Context, companyID bson.ObjectID, fh *multipart.FileHeader) (*entity.Company, error) {
	asset, err := u.media.Upload(ctx, fh)
	if err != nil {
		return nil, err
	}

	company, prevID, err := u.companies.SetImage(ctx, companyID, asset.URL, asset.PublicID)
	if err != nil {
		// 参照されなくなったアップロードを残さない
		u.deleteAsset(ctx, asset.PublicID)
		return nil, err
	}
	if prevID != asset.PublicID {
		u.deleteAsset(ctx, prevID)
	}
	u.invalidateJobs(ctx)
	return company, nil
}

// PostJob は companyID が所有する公開状態の求人を作成します。
func (u *CompanyUsecase) PostJob(ctx context.Context, companyID bson.ObjectID, in jobentity.JobUpdate) (*jobentity.Job, error) {
	in, err := normalizeJob(in)
	if err != nil {
		return nil, err
	}

	job := &jobentity.Job{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Salary:      in.Salary,
		Category:    in.Category,
		Level:       in.Level,
		CompanyID:   companyID,
		Visible:     true,
		Date:        u.now().UTC(),
		Applicants:  []string{},
	}
	if err := u.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJob は companyID が所有する求人の編集可能な項目を上書きします。
func (u *CompanyUsecase) UpdateJob(ctx context.Context, companyID bson.ObjectID, jobID string, in jobentity.JobUpdate) (*jobentity.Job, error) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(jobID))
	if err != nil {
		return nil, jobdomain.ErrJobNotFound
	}
	in, err = normalizeJob(in)
	if err != nil {
		return nil, err
	}
	return u.jobs.UpdateOwned(ctx, id, companyID, in)
}

// ChangeVisibility は companyID が所有する求人の公開状態を切り替えます。
func (u *CompanyUsecase) ChangeVisibility(ctx context.Context, companyID bson.ObjectID, jobID string) (*jobentity.Job, error) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(jobID))
	if err != nil {
		return nil, jobdomain.ErrJobNotFound
	}
	return u.jobs.ToggleVisibility(ctx, id, companyID)
}

// ListPostedJobs は企業の求人を新しい順に、応募数とともに返します。
func (u *CompanyUsecase) ListPostedJobs(ctx context.Context, companyID bson.ObjectID) ([]jobentity.PostedJob, error) {
	jobs, err := u.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	ids := make([]bson.ObjectID, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	counts, err := u.apps.CountByJobIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count applicants: %w", err)
	}

	posted := make([]jobentity.PostedJob, 0, len(jobs))
	for _, j := range jobs {
		posted = append(posted, jobentity.PostedJob{Job: j, ApplicantCount: counts[j.ID]})
	}
	return posted, nil
}

// ListApplicants は企業の求人への応募一覧を返します。
func (u *CompanyUsecase) ListApplicants(ctx context.Context, companyID bson.ObjectID) ([]appentity.ApplicantView, error) {
	return u.apps.ListByCompany(ctx, companyID)
}

// ChangeApplicationStatus は企業の求人への応募のステータスを変更します。
func (u *CompanyUsecase) ChangeApplicationStatus(ctx context.Context, companyID bson.ObjectID, applicationID, status string) (*appentity.Application, error) {
	st := appentity.Status(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, appdomain.ErrInvalidStatus
	}
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(applicationID))
	if err != nil {
		return nil, appdomain.ErrApplicationNotFound
	}
	return u.apps.UpdateStatusOwned(ctx, id, companyID, st)
}

func (u *CompanyUsecase) invalidateJobs(ctx context.Context) {
	if u.jobCache != nil {
		u.jobCache.Invalidate(ctx)
	}
}

func (u *CompanyUsecase) deleteAsset(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if _, err := u.media.Delete(ctx, publicID); err != nil {
		slog.Warn("media delete failed", "publicId", publicID, "error", err)
	}
}

// normalizeJob は文字列項目をトリムし、必須項目がそろっているか検証します。
func normalizeJob(in jobentity.JobUpdate) (jobentity.JobUpdate, error) {
	out := jobentity.JobUpdate{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Salary:      in.Salary,
		Category:    strings.TrimSpace(in.Category),
		Level:       strings.TrimSpace(in.Level),
	}
	for _, v := range []string{out.Title, out.Description, out.Location, out.Category, out.Level} {
		if v == "" {
			return jobentity.JobUpdate{}, jobdomain.ErrMissingFields
		}
	}
	if out.Salary < 0 {
		return jobentity.JobUpdate{}, jobdomain.ErrInvalidSalary
	}
	return out, nil
}
