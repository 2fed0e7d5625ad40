package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/khata-erp/khata-erp/internal/jobs"
	"github.com/khata-erp/khata-erp/internal/ledger"
	"github.com/khata-erp/khata-erp/internal/reports"
)

const (
	warmupScopeTimeout = 20 * time.Second
	warmupConcurrency  = 4
)

// ReportWarmupJob pre-derives the heavy statements for every tenant so the
// first interactive request of the day hits a warm cache.
type ReportWarmupJob struct {
	Reports *reports.Service
	Cache   *reports.Cache
	Tenants TenantLister
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reportsSvc *reports.Service, cache *reports.Cache, tenants TenantLister, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Reports: reportsSvc,
		Cache:   cache,
		Tenants: tenants,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil || j.Tenants == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	wanted := warmupSet(payload.Reports)

	tracker := j.metrics().Track(TaskReportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting report warmup")

	tenants, err := j.Tenants.ListTenants(ctx)
	if err != nil {
		resultErr = err
		logger.Error("list tenants", slog.Any("error", err))
		return resultErr
	}
	if len(tenants) == 0 {
		logger.Info("no tenants discovered for warmup")
		return resultErr
	}

	now := j.now()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(warmupConcurrency)
	for _, tenantID := range tenants {
		tenantID := tenantID
		group.Go(func() error {
			return j.warmTenant(groupCtx, tenantID, now, wanted)
		})
	}
	if err := group.Wait(); err != nil {
		resultErr = err
		logger.Error("warm tenant", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed report warmup", slog.Int("tenants", len(tenants)), slog.Duration("duration", time.Since(now)))
	return resultErr
}

func (j *ReportWarmupJob) warmTenant(ctx context.Context, tenantID ledger.TenantID, now time.Time, wanted map[string]bool) error {
	scopeCtx, cancel := context.WithTimeout(ctx, warmupScopeTimeout)
	defer cancel()

	fyStart := reports.FiscalYearStart(now)

	if wanted["trial_balance"] {
		key, err := j.Cache.TrialBalanceKey(scopeCtx, tenantID, now, nil)
		if err != nil {
			return err
		}
		var vm reports.TrialBalanceVM
		err = j.Cache.FetchJSON(scopeCtx, key, &vm, func(ctx context.Context) (interface{}, error) {
			tb, err := j.Reports.TrialBalance(ctx, tenantID, reports.TrialBalanceFilter{AsOn: &now})
			if err != nil {
				return nil, err
			}
			return reports.FromTrialBalance(tb), nil
		})
		if err != nil {
			return err
		}
	}
	if wanted["profit_loss"] {
		key, err := j.Cache.ProfitLossKey(scopeCtx, tenantID, fyStart, now)
		if err != nil {
			return err
		}
		var vm reports.ProfitLossVM
		err = j.Cache.FetchJSON(scopeCtx, key, &vm, func(ctx context.Context) (interface{}, error) {
			pl, err := j.Reports.ProfitLoss(ctx, tenantID, reports.PeriodFilter{From: fyStart, To: now})
			if err != nil {
				return nil, err
			}
			return reports.FromProfitLoss(pl), nil
		})
		if err != nil {
			return err
		}
	}
	if wanted["balance_sheet"] {
		key, err := j.Cache.BalanceSheetKey(scopeCtx, tenantID, now)
		if err != nil {
			return err
		}
		var vm reports.BalanceSheetVM
		err = j.Cache.FetchJSON(scopeCtx, key, &vm, func(ctx context.Context) (interface{}, error) {
			bs, err := j.Reports.BalanceSheet(ctx, tenantID, now)
			if err != nil {
				return nil, err
			}
			return reports.FromBalanceSheet(bs), nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func warmupSet(requested []string) map[string]bool {
	if len(requested) == 0 {
		return map[string]bool{"trial_balance": true, "profit_loss": true, "balance_sheet": true}
	}
	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		wanted[name] = true
	}
	return wanted
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportWarmup))
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
