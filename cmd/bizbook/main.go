package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/esculape1/bizbook/internal/analysis"
	"github.com/esculape1/bizbook/internal/app"
	"github.com/esculape1/bizbook/internal/auth"
	"github.com/esculape1/bizbook/internal/clients"
	"github.com/esculape1/bizbook/internal/expenses"
	"github.com/esculape1/bizbook/internal/invoices"
	"github.com/esculape1/bizbook/internal/observability"
	"github.com/esculape1/bizbook/internal/orders"
	"github.com/esculape1/bizbook/internal/platform/cache"
	"github.com/esculape1/bizbook/internal/platform/db"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/purchases"
	"github.com/esculape1/bizbook/internal/quotes"
	"github.com/esculape1/bizbook/internal/reports"
	"github.com/esculape1/bizbook/internal/settlements"
	"github.com/esculape1/bizbook/internal/shared"
)

func main() {
	_ = godotenv.Load()

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

	sessionManager := shared.NewSessionManager(redisClient, "bizbook_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)
	money := shared.NewMoneyFormatter(cfg.LocaleTag, cfg.CurrencyCode)
	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	clientRepo := clients.NewRepository(pool)
	clientService := clients.NewService(clientRepo)
	clientHandler := clients.NewHandler(logger, clientService)

	productRepo := products.NewRepository(pool)
	productService := products.NewService(productRepo)
	productHandler := products.NewHandler(logger, productService)

	orderRepo := orders.NewRepository(pool)
	orderService := orders.NewService(orderRepo, clientRepo, productRepo, auditLogger)
	orderHandler := orders.NewHandler(logger, orderService)

	invoiceRepo := invoices.NewRepository(pool)
	invoiceService := invoices.NewService(invoiceRepo, clientRepo, productRepo, auditLogger, reportCache)
	invoiceHandler := invoices.NewHandler(logger, invoiceService)

	quoteRepo := quotes.NewRepository(pool)
	quoteService := quotes.NewService(quoteRepo, clientRepo, productRepo, invoiceService, auditLogger)
	quoteHandler := quotes.NewHandler(logger, quoteService)

	purchaseRepo := purchases.NewRepository(pool)
	purchaseService := purchases.NewService(purchaseRepo, productRepo, auditLogger, reportCache)
	purchaseHandler := purchases.NewHandler(logger, purchaseService)

	settlementRepo := settlements.NewRepository(pool)
	settlementService := settlements.NewService(settlementRepo, auditLogger, reportCache)
	settlementHandler := settlements.NewHandler(logger, settlementService)

	expenseRepo := expenses.NewRepository(pool)
	expenseService := expenses.NewService(expenseRepo, reportCache)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	reportService := reports.NewService(invoiceRepo, expenseRepo, productRepo, reportCache)
	reportHandler := reports.NewHandler(logger, reportService, money)

	var agent analysis.Analyzer
	if cfg.AnalysisEnabled() {
		agent = analysis.NewAgent(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		logger.Warn("analysis disabled: OPENAI_API_KEY not set")
	}
	analysisService := analysis.NewService(agent, reportService, money)
	analysisHandler := analysis.NewHandler(logger, analysisService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		AuthHandler:       authHandler,
		ClientHandler:     clientHandler,
		ProductHandler:    productHandler,
		OrderHandler:      orderHandler,
		InvoiceHandler:    invoiceHandler,
		QuoteHandler:      quoteHandler,
		PurchaseHandler:   purchaseHandler,
		SettlementHandler: settlementHandler,
		ExpenseHandler:    expenseHandler,
		ReportHandler:     reportHandler,
		AnalysisHandler:   analysisHandler,
		Metrics:           metrics,
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
