package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/khata-erp/khata-erp/internal/jobs"
	"github.com/khata-erp/khata-erp/internal/ledger"
	"github.com/khata-erp/khata-erp/internal/reports"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const defaultImbalanceTolerance = 1.0

// TenantLister enumerates tenants with ledger activity.
type TenantLister interface {
	ListTenants(ctx context.Context) ([]ledger.TenantID, error)
}

// TBIntegrityJob scans every tenant's trial balance and reports imbalances.
// Dirty books are logged and counted, never repaired.
type TBIntegrityJob struct {
	Reports *reports.Service
	Tenants TenantLister
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewTBIntegrityJob wires dependencies for the integrity handler.
func NewTBIntegrityJob(reportsSvc *reports.Service, tenants TenantLister, logger *slog.Logger, metrics *jobmetrics.Metrics) *TBIntegrityJob {
	return &TBIntegrityJob{
		Reports: reportsSvc,
		Tenants: tenants,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes trial balance integrity tasks.
func (j *TBIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil || j.Tenants == nil {
		return errors.New("tb integrity: handler not configured")
	}
	var payload TBIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tolerance := payload.Tolerance
	if tolerance <= 0 {
		tolerance = defaultImbalanceTolerance
	}

	tracker := j.metrics().Track(TaskTBIntegrity)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting trial balance integrity scan", slog.Float64("tolerance", tolerance))

	tenants, err := j.Tenants.ListTenants(ctx)
	if err != nil {
		resultErr = err
		logger.Error("list tenants", slog.Any("error", err))
		return resultErr
	}

	asOn := j.now()
	unbalanced := 0
	for _, tenantID := range tenants {
		tb, err := j.Reports.TrialBalance(ctx, tenantID, reports.TrialBalanceFilter{AsOn: &asOn})
		if err != nil {
			resultErr = err
			logger.Error("derive trial balance", slog.String("tenant", tenantID.String()), slog.Any("error", err))
			return resultErr
		}
		if tb.Difference >= tolerance {
			unbalanced++
			j.metrics().AddImbalance(tenantID.String())
			logger.Warn("trial balance out of balance",
				slog.String("tenant", tenantID.String()),
				slog.Float64("difference", tb.Difference),
				slog.Float64("total_debit", tb.TotalDebit),
				slog.Float64("total_credit", tb.TotalCredit))
		}
	}

	logger.Info("completed trial balance integrity scan",
		slog.Int("tenants", len(tenants)),
		slog.Int("unbalanced", unbalanced),
		slog.Duration("duration", time.Since(asOn)))
	return resultErr
}

func (j *TBIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTBIntegrity))
	}
	return slog.Default().With(slog.String("job", TaskTBIntegrity))
}

func (j *TBIntegrityJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *TBIntegrityJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
