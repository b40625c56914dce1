// Package router はHTTPルーティングとルートグループごとのガード適用を定義します。
package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	apphandler "jobportal_backend/internal/feature/applications/transport/handler"
	companyhandler "jobportal_backend/internal/feature/companies/transport/handler"
	jobhandler "jobportal_backend/internal/feature/jobs/transport/handler"
	userhandler "jobportal_backend/internal/feature/users/transport/handler"
	webhookhandler "jobportal_backend/internal/feature/webhooks/transport/handler"
	"jobportal_backend/internal/platform/http/handler"
)

// Handlers は各機能のHTTPハンドラーをまとめたものです。
type Handlers struct {
	Jobs         *jobhandler.JobHandler
	Applications *apphandler.ApplicationHandler
	Companies    *companyhandler.CompanyHandler
	Users        *userhandler.UserHandler
	Webhooks     *webhookhandler.WebhookHandler
}

// Guards は認証ミドルウェアです。
type Guards struct {
	// Authenticate はセッショントークンを検証します（DBアクセスなし）。
	Authenticate gin.HandlerFunc
	// RequireUser はトークンのユーザーを解決します。Authenticate の後に置きます。
	RequireUser gin.HandlerFunc
	// RequireCompany はトークンの組織を企業に解決します。Authenticate の後に置きます。
	RequireCompany gin.HandlerFunc
}

func NewRouter(h Handlers, g Guards, corsOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(corsOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/", handler.Root)
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	// Clerk からのWebhook（署名で検証）
	r.POST("/webhooks", h.Webhooks.Handle)

	api := r.Group("/api")

	// 求人の公開API
	jobs := api.Group("/jobs")
	{
		jobs.GET("", h.Jobs.List)
		jobs.GET("/:id", h.Jobs.Get)
		jobs.POST("/:id/apply", g.Authenticate, g.RequireUser, h.Applications.ApplyByPath)
	}

	// ユーザー向け
	users := api.Group("/users")
	users.Use(g.Authenticate)
	{
		// 初回アクセス時にトークンからユーザーを作成するため RequireUser は付けない
		users.GET("/user", h.Users.GetUser)

		member := users.Group("", g.RequireUser)
		member.POST("/apply", h.Applications.ApplyByBody)
		member.GET("/applications", h.Applications.ListMine)
		member.PUT("/profile", h.Users.UpdateProfile)
		member.POST("/update-resume", h.Users.UpdateResume)
	}

	// 企業向け
	company := api.Group("/company")
	company.Use(g.Authenticate, g.RequireCompany)
	{
		company.GET("/company", h.Companies.GetCompany)
		company.PUT("/profile", h.Companies.UpdateProfile)
		company.POST("/logo", h.Companies.UploadLogo)
		company.POST("/job", h.Companies.PostJob)
		company.PUT("/job/:id", h.Companies.UpdateJob)
		company.GET("/list-jobs", h.Companies.ListJobs)
		company.GET("/applicants", h.Companies.ListApplicants)
		company.POST("/change-status", h.Companies.ChangeStatus)
		company.POST("/change-visibility", h.Companies.ChangeVisibility)
	}

	return r
}

// corsConfig は許可オリジンからCORS設定を作ります。"*" を含む場合は全オリジンを許可します。
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	cfg.MaxAge = 12 * time.Hour

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
