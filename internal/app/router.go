package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/esculape1/bizbook/internal/analysis"
	"github.com/esculape1/bizbook/internal/auth"
	"github.com/esculape1/bizbook/internal/clients"
	"github.com/esculape1/bizbook/internal/expenses"
	"github.com/esculape1/bizbook/internal/invoices"
	"github.com/esculape1/bizbook/internal/observability"
	"github.com/esculape1/bizbook/internal/orders"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/purchases"
	"github.com/esculape1/bizbook/internal/quotes"
	"github.com/esculape1/bizbook/internal/reports"
	"github.com/esculape1/bizbook/internal/settlements"
	"github.com/esculape1/bizbook/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler       *auth.Handler
	ClientHandler     *clients.Handler
	ProductHandler    *products.Handler
	OrderHandler      *orders.Handler
	InvoiceHandler    *invoices.Handler
	QuoteHandler      *quotes.Handler
	PurchaseHandler   *purchases.Handler
	SettlementHandler *settlements.Handler
	ExpenseHandler    *expenses.Handler
	ReportHandler     *reports.Handler
	AnalysisHandler   *analysis.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with BizBook defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Get("/metrics", params.Metrics.Handler().ServeHTTP)
	}

	params.AuthHandler.MountRoutes(r)

	r.Route("/api", func(r chi.Router) {
		r.Use(shared.RequireAuth(params.Logger))

		params.ClientHandler.MountRoutes(r)
		params.ProductHandler.MountRoutes(r)
		params.OrderHandler.MountRoutes(r)
		params.InvoiceHandler.MountRoutes(r)
		params.QuoteHandler.MountRoutes(r)
		params.PurchaseHandler.MountRoutes(r)
		params.SettlementHandler.MountRoutes(r)
		params.ExpenseHandler.MountRoutes(r)
		params.ReportHandler.MountRoutes(r)
		params.AnalysisHandler.MountRoutes(r)
	})

	return r
}
