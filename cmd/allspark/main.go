package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Ravikant96/AllSpark/internal/accounts"
	"github.com/Ravikant96/AllSpark/internal/app"
	"github.com/Ravikant96/AllSpark/internal/auth"
	"github.com/Ravikant96/AllSpark/internal/authz"
	"github.com/Ravikant96/AllSpark/internal/connections"
	"github.com/Ravikant96/AllSpark/internal/dashboards"
	"github.com/Ravikant96/AllSpark/internal/docs"
	"github.com/Ravikant96/AllSpark/internal/observability"
	"github.com/Ravikant96/AllSpark/internal/platform/cache"
	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/reports"
	"github.com/Ravikant96/AllSpark/internal/users"
	"github.com/Ravikant96/AllSpark/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store := db.NewStore(pool, logger)
	metrics := observability.NewMetrics()

	// Authorization engine.
	authzCfg := cfg.AuthzConfig()
	pgStore := authz.NewPGStore(store)
	connAuthorizer := authz.NewConnectionAuthorizer(pgStore)
	reportAuthorizer := authz.NewReportAuthorizer(authzCfg, pgStore, pgStore)
	dashboardAuthorizer := authz.NewDashboardAuthorizer(authzCfg, pgStore, pgStore, reportAuthorizer)

	// Identity and authentication.
	tokenStore := auth.NewTokenStore(redisClient)
	userService := users.NewService(users.NewPGRepository(store))
	accountService := accounts.NewService(accounts.NewPGRepository(store))

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(auth.NewPGRepository(store), userService, tokenStore, jobs.NewResetMailer(jobClient))

	// Resource surfaces.
	connectionService := connections.NewService(connections.NewPGRepository(store), connAuthorizer)
	reportRepo := reports.NewPGRepository(store)
	reportService := reports.NewService(reportRepo, reportAuthorizer, reports.NewSQLRunner(store, reportRepo))
	dashboardService := dashboards.NewService(
		dashboards.NewPGRepository(store),
		dashboardAuthorizer,
		reportService,
		dashboards.NewVisibleSetCache(redisClient, cfg.VisibleSetTTL),
	)
	docService := docs.NewService(docs.NewPGRepository(store))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		TokenStore:         tokenStore,
		AuthHandler:        auth.NewHandler(logger, authService, accountService),
		AccountsHandler:    accounts.NewHandler(logger, accountService),
		ConnectionsHandler: connections.NewHandler(logger, connectionService, metrics),
		ReportsHandler:     reports.NewHandler(logger, reportService, metrics),
		DashboardsHandler:  dashboards.NewHandler(logger, dashboardService, metrics),
		DocsHandler:        docs.NewHandler(logger, docService),
		JobsHandler:        jobs.NewHandler(inspector, logger),
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
