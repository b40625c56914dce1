// Package handler は企業ダッシュボードのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"jobportal_backend/internal/api"
	appdomain "jobportal_backend/internal/feature/applications/domain"
	appentity "jobportal_backend/internal/feature/applications/domain/entity"
	appdto "jobportal_backend/internal/feature/applications/transport/http/dto"
	"jobportal_backend/internal/feature/companies/domain"
	"jobportal_backend/internal/feature/companies/domain/entity"
	"jobportal_backend/internal/feature/companies/transport/http/dto"
	jobdomain "jobportal_backend/internal/feature/jobs/domain"
	jobentity "jobportal_backend/internal/feature/jobs/domain/entity"
	jobdto "jobportal_backend/internal/feature/jobs/transport/http/dto"
	"jobportal_backend/internal/platform/clerk"
	"jobportal_backend/internal/platform/media"
)

// LogoField is the multipart field carrying the company logo.
const LogoField = "image"

// CompanyUsecase は企業ダッシュボードのユースケースインターフェースです。
type CompanyUsecase interface {
	GetCompany(ctx context.Context, companyID bson.ObjectID) (*entity.Company, error)
	UpdateCompany(ctx context.Context, companyID bson.ObjectID, upd entity.ProfileUpdate) (*entity.Company, error)
	UploadLogo(ctx context.Context, companyID bson.ObjectID, fh *multipart.FileHeader) (*entity.Company, error)
	PostJob(ctx context.Context, companyID bson.ObjectID, in jobentity.JobUpdate) (*jobentity.Job, error)
	UpdateJob(ctx context.Context, companyID bson.ObjectID, jobID string, in jobentity.JobUpdate) (*jobentity.Job, error)
	ChangeVisibility(ctx context.Context, companyID bson.ObjectID, jobID string) (*jobentity.Job, error)
	ListPostedJobs(ctx context.Context, companyID bson.ObjectID) ([]jobentity.PostedJob, error)
	ListApplicants(ctx context.Context, companyID bson.ObjectID) ([]appentity.ApplicantView, error)
	ChangeApplicationStatus(ctx context.Context, companyID bson.ObjectID, applicationID, status string) (*appentity.Application, error)
}

// CompanyHandler は企業向けAPIを処理します。すべてのルートはRequireCompanyの後段で動作します。
type CompanyHandler struct {
	uc CompanyUsecase
}

// NewCompanyHandler はCompanyHandlerの新しいインスタンスを生成します。
func NewCompanyHandler(uc CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// GetCompany はログイン中の企業プロフィールを返します。
//
// GET /api/company/company
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	fresh, err := h.uc.GetCompany(c.Request.Context(), company.ID)
	if err != nil {
		h.fail(c, "get company", err)
		return
	}
	api.OK(c, http.StatusOK, "", gin.H{"company": dto.NewCompanyItem(*fresh)})
}

// UpdateProfile は企業名・メールアドレスを更新します。
//
// PUT /api/company/profile
func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	var req dto.ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid profile details")
		return
	}

	updated, err := h.uc.UpdateCompany(c.Request.Context(), company.ID, entity.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		h.fail(c, "update company", err)
		return
	}
	api.OK(c, http.StatusOK, "Company updated successfully", gin.H{"company": dto.NewCompanyItem(*updated)})
}

// UploadLogo はロゴ画像をアップロードして企業画像に設定します。
//
// POST /api/company/logo (multipart/form-data, field "image")
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	fh, err := c.FormFile(LogoField)
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	updated, err := h.uc.UploadLogo(c.Request.Context(), company.ID, fh)
	if err != nil {
		h.fail(c, "upload logo", err)
		return
	}
	api.OK(c, http.StatusOK, "Logo uploaded successfully", gin.H{"company": dto.NewCompanyItem(*updated)})
}

// PostJob は新しい求人を掲載します。
//
// POST /api/company/job
func (h *CompanyHandler) PostJob(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	var req dto.JobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Missing Details")
		return
	}

	job, err := h.uc.PostJob(c.Request.Context(), company.ID, req.ToEntity())
	if err != nil {
		h.fail(c, "post job", err)
		return
	}
	slog.Info("job posted", "job_id", job.ID.Hex(), "company_id", company.ID.Hex())
	api.OK(c, http.StatusCreated, "Job posted successfully", gin.H{"job": jobdto.NewJobItem(*job)})
}

// UpdateJob は自社の求人を更新します。
//
// PUT /api/company/job/:id
func (h *CompanyHandler) UpdateJob(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	var req dto.JobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Missing Details")
		return
	}

	job, err := h.uc.UpdateJob(c.Request.Context(), company.ID, c.Param("id"), req.ToEntity())
	if err != nil {
		h.fail(c, "update job", err)
		return
	}
	api.OK(c, http.StatusOK, "Job updated successfully", gin.H{"job": jobdto.NewJobItem(*job)})
}

// ChangeVisibility は求人の公開・非公開を切り替えます。
//
// POST /api/company/change-visibility
func (h *CompanyHandler) ChangeVisibility(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	var req dto.VisibilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Missing Details")
		return
	}

	job, err := h.uc.ChangeVisibility(c.Request.Context(), company.ID, req.ID)
	if err != nil {
		h.fail(c, "change visibility", err)
		return
	}
	api.OK(c, http.StatusOK, "Visibility Changed", gin.H{"job": jobdto.NewJobItem(*job)})
}

// ListJobs は自社の求人一覧を応募者数付きで返します。
//
// GET /api/company/list-jobs
func (h *CompanyHandler) ListJobs(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	posted, err := h.uc.ListPostedJobs(c.Request.Context(), company.ID)
	if err != nil {
		h.fail(c, "list posted jobs", err)
		return
	}

	out := make([]dto.PostedJobItem, 0, len(posted))
	for _, p := range posted {
		out = append(out, dto.NewPostedJobItem(p))
	}
	api.OK(c, http.StatusOK, "", gin.H{"jobsData": out})
}

// ListApplicants は自社求人への応募一覧を返します。
//
// GET /api/company/applicants
func (h *CompanyHandler) ListApplicants(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	views, err := h.uc.ListApplicants(c.Request.Context(), company.ID)
	if err != nil {
		h.fail(c, "list applicants", err)
		return
	}

	out := make([]appdto.ApplicationItem, 0, len(views))
	for _, v := range views {
		out = append(out, appdto.NewApplicantItem(v))
	}
	api.OK(c, http.StatusOK, "", gin.H{"applications": out})
}

// ChangeStatus は応募のステータスを変更します。
//
// POST /api/company/change-status
func (h *CompanyHandler) ChangeStatus(c *gin.Context) {
	company, ok := h.company(c)
	if !ok {
		return
	}

	var req appdto.ChangeStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Missing Details")
		return
	}

	app, err := h.uc.ChangeApplicationStatus(c.Request.Context(), company.ID, req.ID, req.Status)
	if err != nil {
		h.fail(c, "change application status", err)
		return
	}
	api.OK(c, http.StatusOK, "Status Changed", gin.H{"application": appdto.NewApplicationItem(*app)})
}

// company はコンテキストからログイン中の企業を取り出します。
func (h *CompanyHandler) company(c *gin.Context) (*entity.Company, bool) {
	company, ok := clerk.CompanyFrom(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, clerk.MsgCompanyLoginRequired)
		return nil, false
	}
	return company, true
}

// fail はエラーをHTTPステータスに変換して返却します。
// 想定外のエラーはログにのみ詳細を残し、クライアントには汎用メッセージを返します。
func (h *CompanyHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, jobdomain.ErrMissingFields):
		api.Fail(c, http.StatusBadRequest, "Missing Details")
	case errors.Is(err, jobdomain.ErrInvalidSalary):
		api.Fail(c, http.StatusBadRequest, "Salary must not be negative")
	case errors.Is(err, appdomain.ErrInvalidStatus):
		api.Fail(c, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, jobdomain.ErrJobNotFound):
		api.Fail(c, http.StatusNotFound, "Job not found")
	case errors.Is(err, appdomain.ErrApplicationNotFound):
		api.Fail(c, http.StatusNotFound, "Application not found")
	case errors.Is(err, domain.ErrCompanyNotFound):
		api.Fail(c, http.StatusNotFound, "Company not found")
	case errors.Is(err, media.ErrNoFile):
		api.Fail(c, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrTooLarge),
		errors.Is(err, media.ErrUpstream), errors.Is(err, media.ErrNotConfigured):
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusInternalServerError, "File upload failed")
	default:
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusInternalServerError, api.MsgInternal)
	}
}
