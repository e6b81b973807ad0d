package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/esculape1/bizbook/internal/reports"
)

// ReportWarmupJob pre-populates the report cache so the first dashboard
// request of the day is served from Redis.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reportSvc *reports.Service, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{
		Reports: reportSvc,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	now := j.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if payload.Month != "" {
		parsed, err := time.Parse("2006-01", payload.Month)
		if err != nil {
			return asynq.SkipRetry
		}
		monthStart = parsed
	}
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-24 * time.Hour)

	logger := j.logger().With(slog.String("month", monthStart.Format("2006-01")))
	logger.Info("starting report warmup")

	jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	report, err := j.Reports.Generate(jobCtx, reports.GenerateReportRequest{
		DateFrom:      monthStart,
		DateTo:        monthEnd,
		ClientID:      reports.ClientFilterAll,
		InvoiceStatus: reports.StatusFilterAll,
	})
	if err != nil {
		logger.Error("warm report", slog.Any("error", err))
		return err
	}

	logger.Info("completed report warmup",
		slog.Int("invoices", len(report.Invoices)),
		slog.Float64("gross_sales", report.Summary.GrossSales))
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportWarmup))
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
