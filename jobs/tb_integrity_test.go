package jobs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	jobmetrics "github.com/khata-erp/khata-erp/internal/jobs"
	"github.com/khata-erp/khata-erp/internal/ledger"
	"github.com/khata-erp/khata-erp/internal/reports"
	_ "github.com/khata-erp/khata-erp/testing"
)

type fakeLedgerRepo struct {
	tenants   []ledger.TenantID
	groups    []ledger.AccountGroup
	ledgers   []ledger.Ledger
	movements map[int64]ledger.Movement
}

func (f *fakeLedgerRepo) ListTenants(ctx context.Context) ([]ledger.TenantID, error) {
	return f.tenants, nil
}

func (f *fakeLedgerRepo) ListAccountGroups(ctx context.Context, tenantID ledger.TenantID) ([]ledger.AccountGroup, error) {
	return f.groups, nil
}

func (f *fakeLedgerRepo) ListActiveLedgers(ctx context.Context, tenantID ledger.TenantID) ([]ledger.Ledger, error) {
	return f.ledgers, nil
}

func (f *fakeLedgerRepo) GetLedger(ctx context.Context, tenantID ledger.TenantID, ledgerID int64) (ledger.Ledger, error) {
	return ledger.Ledger{}, ledger.ErrLedgerNotFound
}

func (f *fakeLedgerRepo) MovementTotals(ctx context.Context, tenantID ledger.TenantID, filter ledger.MovementFilter) (map[int64]ledger.Movement, error) {
	return f.movements, nil
}

func (f *fakeLedgerRepo) LedgerEntries(ctx context.Context, tenantID ledger.TenantID, ledgerID int64, from, to time.Time) ([]ledger.StatementEntry, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) ActiveInventoryItems(ctx context.Context, tenantID ledger.TenantID) ([]ledger.InventoryItem, error) {
	return nil, nil
}

func TestTBIntegrityJobFlagsImbalance(t *testing.T) {
	repo := &fakeLedgerRepo{
		tenants: []ledger.TenantID{uuid.New()},
		groups: []ledger.AccountGroup{
			{ID: 1, GroupCode: "CA", Name: "Current Assets", Nature: ledger.NatureAsset, BSCategory: ledger.BSCategoryCurrentAsset},
		},
		ledgers: []ledger.Ledger{
			{ID: 1, LedgerCode: "CA-01", LedgerName: "Cash", AccountGroupID: 1, BalanceType: ledger.SideDebit, IsActive: true},
		},
		// Debit-only movement with no balancing credit: books out of balance.
		movements: map[int64]ledger.Movement{1: {Debit: 5000}},
	}
	logger := slog.New(slog.DiscardHandler)
	svc := reports.NewService(repo, logger)

	job := NewTBIntegrityJob(svc, repo, logger, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewTBIntegrityTask(0)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestReportWarmupJobDerivesStatements(t *testing.T) {
	repo := &fakeLedgerRepo{
		tenants: []ledger.TenantID{uuid.New(), uuid.New()},
		groups: []ledger.AccountGroup{
			{ID: 1, GroupCode: "CA", Name: "Current Assets", Nature: ledger.NatureAsset, BSCategory: ledger.BSCategoryCurrentAsset},
		},
		ledgers: []ledger.Ledger{
			{ID: 1, LedgerCode: "CA-01", LedgerName: "Cash", AccountGroupID: 1, OpeningBalance: 100, BalanceType: ledger.SideDebit, IsActive: true},
		},
		movements: map[int64]ledger.Movement{},
	}
	logger := slog.New(slog.DiscardHandler)
	svc := reports.NewService(repo, logger)

	// Nil redis client: the cache helper falls back to derive-only mode.
	job := NewReportWarmupJob(svc, reports.NewCache(nil, time.Minute), repo, logger, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewReportWarmupTask()
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
}
