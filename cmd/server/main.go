package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/newsboard/config"
	_ "github.com/d60-Lab/newsboard/docs"
	"github.com/d60-Lab/newsboard/internal/api"
	"github.com/d60-Lab/newsboard/internal/api/handler"
	"github.com/d60-Lab/newsboard/internal/repository"
	"github.com/d60-Lab/newsboard/internal/service"
	"github.com/d60-Lab/newsboard/pkg/database"
	"github.com/d60-Lab/newsboard/pkg/logger"
	"github.com/d60-Lab/newsboard/pkg/tracing"
)

// @title newsboard API
// @version 1.0
// @description Threaded newsgroup board with incremental sync polling.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.Trace.Enabled {
		shutdown, err := tracing.Init(ctx, cfg, "newsboard")
		if err != nil {
			logger.Warn("tracing init failed", zap.Error(err))
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		return
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		defer rdb.Close()
	}

	postRepo := repository.NewPostRepository(db)
	cancelRepo := repository.NewCancellationRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	markRepo := repository.NewReadMarkRepository(db)
	access := service.NewAccessControl()
	tree := service.NewTreeService(db, postRepo, cancelRepo, markRepo)
	svc := service.NewNewsgroupService(db, groupRepo, postRepo, cancelRepo, markRepo, tree, access)
	h := handler.New(svc, access)

	r := api.SetupRouter(cfg, h, rdb)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
