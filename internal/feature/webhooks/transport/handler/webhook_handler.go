// Package handler はIDプロバイダーからのWebhookを受け付けます。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/api"
	"jobportal_backend/internal/feature/webhooks/domain"
	"jobportal_backend/internal/feature/webhooks/domain/entity"
)

// MaxPayloadSize bounds the webhook body.
const MaxPayloadSize = 1 << 20

// Required signature headers.
var signatureHeaders = []string{"svix-id", "svix-timestamp", "svix-signature"}

// SignatureVerifier は署名検証のインターフェースです。
type SignatureVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// WebhookUsecase はイベント処理のユースケースインターフェースです。
type WebhookUsecase interface {
	Handle(ctx context.Context, evt entity.Event) (bool, error)
}

// WebhookHandler はWebhookの署名検証とディスパッチを行います。
type WebhookHandler struct {
	verifier SignatureVerifier
	uc       WebhookUsecase
}

// NewWebhookHandler はWebhookHandlerの新しいインスタンスを生成します。
func NewWebhookHandler(verifier SignatureVerifier, uc WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, uc: uc}
}

// Handle は署名付きイベントを検証して処理します。検証に失敗した場合は状態を変更せず400を返します。
//
// POST /webhooks
func (h *WebhookHandler) Handle(c *gin.Context) {
	for _, name := range signatureHeaders {
		if c.GetHeader(name) == "" {
			api.Fail(c, http.StatusBadRequest, "Missing webhook headers")
			return
		}
	}

	// 署名は受信したバイト列そのものに対して検証する
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxPayloadSize))
	if err != nil {
		slog.Warn("read webhook body failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusBadRequest, "Error verifying webhook")
		return
	}

	if err := h.verifier.Verify(payload, c.Request.Header); err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			slog.Error("webhook received but no secret is configured", "remote_addr", c.ClientIP())
		} else {
			slog.Warn("webhook verification failed", "error", err, "remote_addr", c.ClientIP())
		}
		api.Fail(c, http.StatusBadRequest, "Error verifying webhook")
		return
	}

	var evt entity.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		slog.Warn("webhook payload is not an event", "error", err)
		api.Fail(c, http.StatusBadRequest, "Error verifying webhook")
		return
	}

	handled, err := h.uc.Handle(c.Request.Context(), evt)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedEvent) {
			slog.Warn("webhook event rejected", "error", err, "type", evt.Type)
			api.Fail(c, http.StatusBadRequest, "Invalid webhook payload")
			return
		}
		slog.Error("webhook dispatch failed", "error", err, "type", evt.Type, "svix_id", c.GetHeader("svix-id"))
		api.Fail(c, http.StatusInternalServerError, api.MsgInternal)
		return
	}

	slog.Info("webhook processed", "type", evt.Type, "handled", handled, "svix_id", c.GetHeader("svix-id"))
	api.OK(c, http.StatusOK, "Webhook processed successfully", nil)
}
