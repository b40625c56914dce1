package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobportal_backend/internal/app/di"
	"jobportal_backend/internal/app/router"
	"jobportal_backend/internal/platform/config"
	platformmongo "jobportal_backend/internal/platform/mongo"
	platformredis "jobportal_backend/internal/platform/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	ctx := context.Background()

	// db
	mdb, err := platformmongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	if err := platformmongo.EnsureIndexes(ctx, mdb.Database()); err != nil {
		slog.Error("failed to create indexes", "error", err)
		_ = mdb.Close(ctx)
		os.Exit(1)
	}

	// Redis（なくても起動する）
	rdb, err := platformredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}

	handlers, guards, err := di.NewRouterDeps(mdb.Database(), rdb, cfg)
	if err != nil {
		slog.Error("failed to initialise dependencies", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(handlers, guards, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}
	if err := mdb.Close(shutdownCtx); err != nil {
		slog.Error("failed to close MongoDB client", "error", err)
	}
	slog.Info("server exited")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
