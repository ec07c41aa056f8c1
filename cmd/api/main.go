package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chackchack-dev/chackchack-backend/api/controllers"
	"github.com/chackchack-dev/chackchack-backend/api/middleware"
	"github.com/chackchack-dev/chackchack-backend/api/routes"
	"github.com/chackchack-dev/chackchack-backend/internal/accounts"
	"github.com/chackchack-dev/chackchack-backend/internal/auth"
	"github.com/chackchack-dev/chackchack-backend/internal/notifications"
	"github.com/chackchack-dev/chackchack-backend/internal/owners"
	"github.com/chackchack-dev/chackchack-backend/internal/qrcodes"
	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/chackchack-dev/chackchack-backend/pkg/db"
	"github.com/chackchack-dev/chackchack-backend/pkg/instance"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
	"github.com/chackchack-dev/chackchack-backend/pkg/metrics"
	"github.com/chackchack-dev/chackchack-backend/pkg/migrate"
	"github.com/chackchack-dev/chackchack-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if err := cfg.Payment.Validate(); err != nil {
		logg.Error(context.Background(), "invalid payment config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	var limiter middleware.RateLimiterStore
	var redisPinger redis.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		limiter = redisClient
		redisPinger = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, rate limiting disabled")
	}

	ownerRepo := owners.NewRepository(dbClient.DB())
	accountRepo := accounts.NewRepository(dbClient.DB())
	qrRepo := qrcodes.NewRepository(dbClient.DB())
	notifRepo := notifications.NewRepository(dbClient.DB())

	authService, err := auth.NewService(cfg.JWT, dbClient, ownerRepo, accountRepo, qrRepo, notifRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	accountService, err := accounts.NewService(accountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}
	qrService, err := qrcodes.NewService(qrRepo, accountRepo, cfg.Payment, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create qrcodes service", err)
		os.Exit(1)
	}
	notifService, err := notifications.NewService(notifRepo, qrRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.New(routes.Dependencies{
		Config:      cfg,
		Logger:      logg,
		HTTPMetrics: httpMetrics,
		Registry:    registry,

		RateLimiter: limiter,
		Verifier:    authService,

		Health:        controllers.NewHealthController(dbClient, redisPinger, logg),
		Auth:          controllers.NewAuthController(authService, logg),
		Accounts:      controllers.NewAccountsController(accountService, logg),
		QrCodes:       controllers.NewQrCodesController(qrService, logg),
		Notifications: controllers.NewNotificationsController(notifService, logg),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
