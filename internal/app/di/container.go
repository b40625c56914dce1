package di

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"jobportal_backend/internal/app/router"
	appadapters "jobportal_backend/internal/feature/applications/adapters"
	apphandler "jobportal_backend/internal/feature/applications/transport/handler"
	appusecase "jobportal_backend/internal/feature/applications/usecase"
	companyadapters "jobportal_backend/internal/feature/companies/adapters"
	companyhandler "jobportal_backend/internal/feature/companies/transport/handler"
	companyusecase "jobportal_backend/internal/feature/companies/usecase"
	jobhandler "jobportal_backend/internal/feature/jobs/transport/handler"
	jobusecase "jobportal_backend/internal/feature/jobs/usecase"
	useradapters "jobportal_backend/internal/feature/users/adapters"
	userhandler "jobportal_backend/internal/feature/users/transport/handler"
	userusecase "jobportal_backend/internal/feature/users/usecase"
	webhookadapters "jobportal_backend/internal/feature/webhooks/adapters"
	webhookhandler "jobportal_backend/internal/feature/webhooks/transport/handler"
	webhookusecase "jobportal_backend/internal/feature/webhooks/usecase"
	"jobportal_backend/internal/platform/clerk"
	"jobportal_backend/internal/platform/config"
	"jobportal_backend/internal/platform/media"
)

// NewRouterDeps builds every repository, usecase, handler and guard from the open
// connections. rdb may be nil.
func NewRouterDeps(db *mongo.Database, rdb *redis.Client, cfg *config.Config) (router.Handlers, router.Guards, error) {
	// Repository
	jobRepo, jobCache := NewJobRepository(db, rdb, cfg.CacheTTL)
	appRepo := appadapters.NewApplicationMongo(db)
	companyRepo := companyadapters.NewCompanyMongo(db)
	userRepo := useradapters.NewUserMongo(db)

	// External services
	store, err := media.NewStore(cfg.Cloudinary)
	if err != nil {
		return router.Handlers{}, router.Guards{}, err
	}
	verifier, err := clerk.NewVerifier(cfg.Clerk)
	if err != nil {
		return router.Handlers{}, router.Guards{}, err
	}
	if !verifier.Configured() {
		slog.Warn("CLERK_JWT_KEY is not set; authenticated routes will reject every request")
	}
	signatures, err := webhookadapters.NewSvixVerifier(cfg.Clerk.WebhookSecret)
	if err != nil {
		return router.Handlers{}, router.Guards{}, fmt.Errorf("webhook verifier: %w", err)
	}
	if cfg.Clerk.WebhookSecret == "" {
		slog.Warn("WEBHOOK_SECRET is not set; webhooks will be rejected")
	}

	// Usecase
	jobUC := jobusecase.NewJobUsecase(jobRepo)
	appUC := appusecase.NewApplicationUsecase(appRepo, jobRepo)
	companyUC := companyusecase.NewCompanyUsecase(companyRepo, jobRepo, appRepo, store, jobCache)
	userUC := userusecase.NewUserUsecase(userRepo, store)
	webhookUC := webhookusecase.NewWebhookUsecase(userRepo, companyRepo, jobCache)

	handlers := router.Handlers{
		Jobs:         jobhandler.NewJobHandler(jobUC),
		Applications: apphandler.NewApplicationHandler(appUC),
		Companies:    companyhandler.NewCompanyHandler(companyUC),
		Users:        userhandler.NewUserHandler(userUC),
		Webhooks:     webhookhandler.NewWebhookHandler(signatures, webhookUC),
	}
	guards := router.Guards{
		Authenticate:   clerk.Authenticate(verifier),
		RequireUser:    clerk.RequireUser(userRepo),
		RequireCompany: clerk.RequireCompany(companyRepo),
	}
	return handlers, guards, nil
}
