package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-bff/internal/audit"
	"storefront-bff/internal/auth"
	"storefront-bff/internal/bff"
	"storefront-bff/internal/cache"
	"storefront-bff/internal/config"
	"storefront-bff/internal/metrics"
	"storefront-bff/internal/query"
	"storefront-bff/internal/session"
	"storefront-bff/internal/upstream"
	"storefront-bff/pkg/logger"
	"storefront-bff/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	var store cache.Store
	if cfg.RedisEnabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()

		store, err = cache.NewRedisStore(rdb)
		if err != nil {
			log.Error("cache init failed", "err", err)
			os.Exit(1)
		}
	} else {
		log.Warn("REDIS_HOST not set, using in-process cache store")
		store = cache.NewMemoryStore()
	}

	sessions := session.NewManager()
	handlers := &bff.Handlers{
		Upstream:         upstream.NewClient(cfg.Upstream),
		Cache:            store,
		Queries:          query.NewClient(),
		Sessions:         sessions,
		Auth:             authManager,
		Audit:            audit.NewService(audit.NewMemoryRepo()),
		RevalidateWindow: cfg.Cache.RevalidateWindow,
		HardTTL:          cfg.Cache.HardTTL,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(metrics.Middleware())

	registerRoutes(r, handlers, auth.RequireSession(authManager, sessions))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("bff listening", "addr", srv.Addr, "env", cfg.App.Env, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
