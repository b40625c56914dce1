// Package handler はapplicationsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/api"
	"jobportal_backend/internal/feature/applications/domain"
	"jobportal_backend/internal/feature/applications/domain/entity"
	"jobportal_backend/internal/feature/applications/transport/http/dto"
	jobdomain "jobportal_backend/internal/feature/jobs/domain"
	"jobportal_backend/internal/platform/clerk"
)

// ApplicationUsecase は応募ユースケースのインターフェースです。
type ApplicationUsecase interface {
	Apply(ctx context.Context, jobID, userID string) (*entity.Application, error)
	ListForUser(ctx context.Context, userID string) ([]entity.UserApplicationView, error)
}

// ApplicationHandler は求職者向けの応募APIを処理します。
type ApplicationHandler struct {
	uc ApplicationUsecase
}

// NewApplicationHandler はApplicationHandlerの新しいインスタンスを生成します。
func NewApplicationHandler(uc ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// ApplyByPath はパスで指定された求人に応募します。
//
// エンドポイント例:
// POST /api/jobs/:id/apply
func (h *ApplicationHandler) ApplyByPath(c *gin.Context) {
	h.apply(c, c.Param("id"))
}

// ApplyByBody はリクエストボディのjobIdで指定された求人に応募します。
//
// エンドポイント例:
// POST /api/users/apply  {"jobId": "..."}
func (h *ApplicationHandler) ApplyByBody(c *gin.Context) {
	var req dto.ApplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Missing Details")
		return
	}
	h.apply(c, req.JobID)
}

func (h *ApplicationHandler) apply(c *gin.Context, jobID string) {
	user, ok := clerk.UserFrom(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, clerk.MsgLoginRequired)
		return
	}

	app, err := h.uc.Apply(c.Request.Context(), jobID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, jobdomain.ErrJobNotFound):
			api.Fail(c, http.StatusNotFound, "Job not found")
		case errors.Is(err, domain.ErrAlreadyApplied):
			api.Fail(c, http.StatusBadRequest, "Already Applied")
		default:
			slog.Error("apply failed", "error", err, "job_id", jobID, "user_id", user.ID, "remote_addr", c.ClientIP())
			api.Fail(c, http.StatusInternalServerError, api.MsgInternal)
		}
		return
	}

	slog.Info("application submitted", "application_id", app.ID.Hex(), "job_id", jobID, "user_id", user.ID)
	api.OK(c, http.StatusCreated, "Applied Successfully", gin.H{"application": dto.NewApplicationItem(*app)})
}

// ListMine はログインユーザーの応募一覧を返します。
//
// エンドポイント例:
// GET /api/users/applications
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	user, ok := clerk.UserFrom(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, clerk.MsgLoginRequired)
		return
	}

	views, err := h.uc.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("list applications failed", "error", err, "user_id", user.ID, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusInternalServerError, api.MsgInternal)
		return
	}

	out := make([]dto.ApplicationItem, 0, len(views))
	for _, v := range views {
		out = append(out, dto.NewUserApplicationItem(v))
	}
	api.OK(c, http.StatusOK, "", gin.H{"applications": out})
}
