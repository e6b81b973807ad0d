package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup recomputes and caches the current-month report.
	TaskReportWarmup = "report:warmup"
	// TaskStockScan logs products at or below their reorder point.
	TaskStockScan = "stock:scan"
)

// ReportWarmupPayload selects the report window to warm. An empty
// month means the current calendar month.
type ReportWarmupPayload struct {
	Month string `json:"month,omitempty"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// NewStockScanTask constructs an Asynq task. The scan has no payload.
func NewStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskStockScan, nil)
}
