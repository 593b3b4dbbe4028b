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

	"github.com/sunriseyouth/backend/internal/clicktracker"
	"github.com/sunriseyouth/backend/internal/config"
	"github.com/sunriseyouth/backend/internal/handler"
	"github.com/sunriseyouth/backend/internal/logging"
	"github.com/sunriseyouth/backend/internal/metrics"
	"github.com/sunriseyouth/backend/internal/ratelimit"
	"github.com/sunriseyouth/backend/internal/repository"
	"github.com/sunriseyouth/backend/internal/service"
	"github.com/sunriseyouth/backend/pkg/auth"
)

const tokenTTL = 24 * time.Hour

func main() {
	logging.Setup()
	cfg := config.Load()

	ctx := context.Background()

	// The process does not start without a store.
	store, err := repository.Open(ctx, repository.Options{
		Driver:         cfg.StoreDriver,
		PostgresURL:    cfg.DatabaseURL,
		MongoURL:       cfg.MongoURL,
		MongoDatabase:  cfg.MongoDatabase,
		ConnectTimeout: cfg.StoreConnectTimeout,
	})
	if err != nil {
		logging.Fatal("failed to connect to store", "driver", cfg.StoreDriver, "error", err)
	}
	slog.Info("store connected", "driver", cfg.StoreDriver)

	m := metrics.New()

	tracker := clicktracker.New(store.QRCodes, clicktracker.Options{
		QueueSize: cfg.ClickQueueSize,
		Workers:   cfg.ClickWorkers,
		Timeout:   cfg.ClickTimeout,
	}, m)
	tracker.Start()

	messageService := service.NewMessageService(store.Messages, m)
	qrService := service.NewQRCodeService(store.QRCodes, tracker, m)
	contentService := service.NewContentService(store.Content)

	deps := handler.Deps{
		Store:            store,
		Messages:         messageService,
		QRCodes:          qrService,
		Content:          contentService,
		Metrics:          m,
		Tokens:           auth.NewTokenIssuer(cfg.JWTSecret, tokenTTL),
		AdminPassword:    cfg.AdminPassword,
		AuthRequired:     cfg.AuthRequired,
		CORSOrigins:      cfg.CORSOrigins,
		ContactRateLimit: cfg.ContactRateLimit,
	}

	redisClient, err := ratelimit.Connect(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, contact rate limit stays per instance", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		deps.ContactLimiter = ratelimit.NewRedisWindow(redisClient, "contact", cfg.ContactRateLimit, time.Minute)
	}

	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD is not set, admin login is disabled")
	}
	if !cfg.AuthRequired {
		slog.Warn("AUTH_REQUIRED is off, admin routes are open")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := tracker.Close(shutdownCtx); err != nil {
		slog.Error("click tracker did not drain", "error", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		slog.Error("store close error", "error", err)
	}
}
