package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-derives the heavy statements for every tenant.
	TaskReportWarmup = "reports:warmup"
	// TaskTBIntegrity scans every tenant's trial balance for imbalances.
	TaskTBIntegrity = "reports:tb_integrity"
)

// ReportWarmupPayload selects which statements the warmup run derives.
type ReportWarmupPayload struct {
	Reports []string `json:"reports,omitempty"`
}

// NewReportWarmupTask constructs the warmup task. An empty report list warms
// every statement type.
func NewReportWarmupTask(reportTypes ...string) (*asynq.Task, error) {
	data, err := json.Marshal(ReportWarmupPayload{Reports: reportTypes})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// TBIntegrityPayload tunes the integrity scan.
type TBIntegrityPayload struct {
	// Tolerance overrides the default imbalance threshold when positive.
	Tolerance float64 `json:"tolerance,omitempty"`
}

// NewTBIntegrityTask constructs the nightly trial balance integrity task.
func NewTBIntegrityTask(tolerance float64) (*asynq.Task, error) {
	data, err := json.Marshal(TBIntegrityPayload{Tolerance: tolerance})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTBIntegrity, data), nil
}
