// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RootMessage は GET / の応答本文です。
const RootMessage = "API Working"

// Root はルートパスへの導通確認に応答します。
func Root(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.String(http.StatusOK, RootMessage)
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HEAD は本文なし、OPTIONS は 204 を返し、いずれもキャッシュさせません。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
