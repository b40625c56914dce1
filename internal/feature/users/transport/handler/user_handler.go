// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/api"
	"jobportal_backend/internal/feature/users/domain"
	"jobportal_backend/internal/feature/users/domain/entity"
	"jobportal_backend/internal/feature/users/transport/http/dto"
	"jobportal_backend/internal/platform/clerk"
	"jobportal_backend/internal/platform/media"
)

// ResumeField is the multipart field carrying the resume file.
const ResumeField = "resume"

// UserUsecase はユーザープロフィールのユースケースインターフェースです。
type UserUsecase interface {
	GetOrCreate(ctx context.Context, id entity.Identity) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, upd entity.ProfileUpdate) (*entity.User, error)
	UpdateResume(ctx context.Context, userID string, fh *multipart.FileHeader) (*entity.User, error)
}

// UserHandler はユーザー向けAPIを処理します。
type UserHandler struct {
	uc UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// GetUser はログインユーザーを返します。初回アクセス時はトークンの情報から作成します。
//
// GET /api/users/user
func (h *UserHandler) GetUser(c *gin.Context) {
	claims, ok := clerk.ClaimsFrom(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, clerk.MsgLoginRequired)
		return
	}

	user, err := h.uc.GetOrCreate(c.Request.Context(), entity.Identity{
		ID:    claims.UserID(),
		Name:  claims.Name,
		Email: claims.Email,
		Image: claims.ImageURL,
	})
	if err != nil {
		h.fail(c, "get user", err)
		return
	}
	api.OK(c, http.StatusOK, "", gin.H{"user": dto.NewUserItem(*user)})
}

// UpdateProfile は名前・メールアドレスを更新します。
//
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	current, ok := clerk.UserFrom(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, clerk.MsgLoginRequired)
		return
	}

	var req dto.ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid profile details")
		return
	}

	user, err := h.uc.UpdateProfile(c.Request.Context(), current.ID, entity.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		h.fail(c, "update user", err)
		return
	}
	api.OK(c, http.StatusOK, "User updated successfully", gin.H{"user": dto.NewUserItem(*user)})
}

// UpdateResume は履歴書をアップロードします。
//
// POST /api/users/update-resume (multipart/form-data, field "resume")
func (h *UserHandler) UpdateResume(c *gin.Context) {
	current, ok := clerk.UserFrom(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, clerk.MsgLoginRequired)
		return
	}

	fh, err := c.FormFile(ResumeField)
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	user, err := h.uc.UpdateResume(c.Request.Context(), current.ID, fh)
	if err != nil {
		h.fail(c, "update resume", err)
		return
	}
	api.OK(c, http.StatusOK, "Resume Updated", gin.H{"user": dto.NewUserItem(*user)})
}

func (h *UserHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		api.Fail(c, http.StatusNotFound, "User not found")
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
