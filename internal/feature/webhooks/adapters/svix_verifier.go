// Package adapters はsvixライブラリによるWebhook署名検証を提供します。
package adapters

import (
	"fmt"
	"net/http"
	"strings"

	svix "github.com/svix/svix-webhooks/go"

	"jobportal_backend/internal/feature/webhooks/domain"
)

// SvixVerifier は svix-id・svix-timestamp・svix-signature ヘッダーを共有シークレットで検証します。
type SvixVerifier struct {
	wh *svix.Webhook
}

// NewSvixVerifier creates a verifier for secret ("whsec_..."). An empty secret yields
// a verifier that rejects everything with domain.ErrNotConfigured.
func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return &SvixVerifier{}, nil
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("init webhook verifier: %w", err)
	}
	return &SvixVerifier{wh: wh}, nil
}

// Verify checks payload against headers. Timestamps outside the library's tolerance
// window are rejected.
func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	if v.wh == nil {
		return domain.ErrNotConfigured
	}
	if err := v.wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}
	return nil
}
