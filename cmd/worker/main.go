package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/esculape1/bizbook/internal/app"
	"github.com/esculape1/bizbook/internal/expenses"
	"github.com/esculape1/bizbook/internal/invoices"
	"github.com/esculape1/bizbook/internal/platform/cache"
	"github.com/esculape1/bizbook/internal/platform/db"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/reports"
	"github.com/esculape1/bizbook/jobs"
)

func main() {
	_ = godotenv.Load()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg).With(slog.String("component", "worker"))

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

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	invoiceRepo := invoices.NewRepository(pool)
	expenseRepo := expenses.NewRepository(pool)
	productRepo := products.NewRepository(pool)
	reportService := reports.NewService(invoiceRepo, expenseRepo, productRepo, reportCache)

	warmupJob := jobs.NewReportWarmupJob(reportService, logger)
	stockJob := jobs.NewStockScanJob(productRepo, logger)

	warmupTask, err := jobs.NewReportWarmupTask(jobs.ReportWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskStockScan, Handler: stockJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			// Warm the report cache shortly after midnight UTC.
			{Spec: "15 0 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			// Low stock scan every morning before business hours.
			{Spec: "0 6 * * *", Task: jobs.NewStockScanTask(), Options: []asynq.Option{asynq.MaxRetry(2)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
