// Package handler はjobsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/api"
	"jobportal_backend/internal/feature/jobs/domain"
	"jobportal_backend/internal/feature/jobs/domain/entity"
	"jobportal_backend/internal/feature/jobs/transport/http/dto"
)

// JobUsecase は求人検索のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type JobUsecase interface {
	ListJobs(ctx context.Context, filter entity.JobFilter) ([]entity.JobView, error)
	GetJob(ctx context.Context, id string) (*entity.JobView, error)
}

// JobHandler は公開求人APIのHTTPリクエストを処理します。
type JobHandler struct {
	uc JobUsecase
}

// NewJobHandler はJobHandlerの新しいインスタンスを生成します。
func NewJobHandler(uc JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

// List は求人一覧を返します。
//
// エンドポイント例:
// GET /api/jobs?category=Programming&level=Senior&location=Tokyo&search=golang
func (h *JobHandler) List(c *gin.Context) {
	filter := entity.JobFilter{
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}

	jobs, err := h.uc.ListJobs(c.Request.Context(), filter)
	if err != nil {
		slog.Error("list jobs failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusInternalServerError, api.MsgInternal)
		return
	}

	out := make([]dto.JobViewItem, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, dto.NewJobViewItem(j))
	}
	api.OK(c, http.StatusOK, "", gin.H{"jobs": out})
}

// Get は求人詳細を返します。存在しない場合は404を返却します。
//
// エンドポイント例:
// GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.uc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			api.Fail(c, http.StatusNotFound, "Job not found")
			return
		}
		slog.Error("get job failed", "error", err, "job_id", c.Param("id"))
		api.Fail(c, http.StatusInternalServerError, api.MsgInternal)
		return
	}
	api.OK(c, http.StatusOK, "", gin.H{"job": dto.NewJobViewItem(*job)})
}
