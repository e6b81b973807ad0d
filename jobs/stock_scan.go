package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/esculape1/bizbook/internal/products"
)

// StockScanJob reports products at or below their reorder point so the
// owner sees replenishment needs in the logs and dashboards.
type StockScanJob struct {
	Products products.Repository
	Logger   *slog.Logger
}

// NewStockScanJob wires dependencies for the stock scan handler.
func NewStockScanJob(productRepo products.Repository, logger *slog.Logger) *StockScanJob {
	return &StockScanJob{Products: productRepo, Logger: logger}
}

// Handle processes stock scan tasks.
func (j *StockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Products == nil {
		return errors.New("stock scan: handler not configured")
	}

	jobCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	low, err := j.Products.LowStock(jobCtx)
	if err != nil {
		j.logger().Error("scan stock", slog.Any("error", err))
		return err
	}
	if len(low) == 0 {
		j.logger().Info("stock scan clean")
		return nil
	}

	for _, p := range low {
		j.logger().Warn("product below reorder point",
			slog.Int64("product_id", p.ID),
			slog.String("reference", p.Reference),
			slog.String("name", p.Name),
			slog.Float64("quantity_in_stock", p.QuantityInStock),
			slog.Float64("reorder_point", p.ReorderPoint))
	}
	j.logger().Info("stock scan completed", slog.Int("low_stock_products", len(low)))
	return nil
}

func (j *StockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStockScan))
	}
	return slog.Default().With(slog.String("job", TaskStockScan))
}
