package reports

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

// LedgerRepository abstracts the tenant-scoped data access the generators
// need. Every call names its tenant explicitly; the engine holds no ambient
// tenant state.
type LedgerRepository interface {
	ListAccountGroups(ctx context.Context, tenantID ledger.TenantID) ([]ledger.AccountGroup, error)
	ListActiveLedgers(ctx context.Context, tenantID ledger.TenantID) ([]ledger.Ledger, error)
	GetLedger(ctx context.Context, tenantID ledger.TenantID, ledgerID int64) (ledger.Ledger, error)
	MovementTotals(ctx context.Context, tenantID ledger.TenantID, filter ledger.MovementFilter) (map[int64]ledger.Movement, error)
	LedgerEntries(ctx context.Context, tenantID ledger.TenantID, ledgerID int64, from, to time.Time) ([]ledger.StatementEntry, error)
	ActiveInventoryItems(ctx context.Context, tenantID ledger.TenantID) ([]ledger.InventoryItem, error)
}

// TrialBalanceFilter selects the trial balance window. When From is set the
// movement is computed from that date through today; otherwise balances are
// taken as on AsOn (default today).
type TrialBalanceFilter struct {
	AsOn *time.Time
	From *time.Time
}

// PeriodFilter is an inclusive date range.
type PeriodFilter struct {
	From time.Time
	To   time.Time
}

// StatementFilter selects one ledger's statement period.
type StatementFilter struct {
	LedgerID int64
	From     time.Time
	To       time.Time
}

// Service derives financial statements from posted ledger data. All
// operations are read-only aggregations; concurrent report requests need no
// coordination.
type Service struct {
	repo   LedgerRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the report service.
func NewService(repo LedgerRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// TrialBalance computes the trial balance for the tenant.
func (s *Service) TrialBalance(ctx context.Context, tenantID ledger.TenantID, filter TrialBalanceFilter) (TrialBalance, error) {
	if s == nil || s.repo == nil {
		return TrialBalance{}, errors.New("reports: service not initialised")
	}
	ch, err := s.loadChart(ctx, tenantID)
	if err != nil {
		return TrialBalance{}, err
	}

	asOn := s.now()
	var movementFilter ledger.MovementFilter
	if filter.From != nil {
		movementFilter = ledger.RangeFilter(*filter.From, asOn)
	} else {
		if filter.AsOn != nil {
			asOn = *filter.AsOn
		}
		movementFilter = ledger.AsOnFilter(asOn)
	}
	mv, err := s.repo.MovementTotals(ctx, tenantID, movementFilter)
	if err != nil {
		return TrialBalance{}, err
	}
	return BuildTrialBalance(ch, mv, asOn, filter.From), nil
}

// ProfitLoss computes the Trading and Profit & Loss statement for a period.
func (s *Service) ProfitLoss(ctx context.Context, tenantID ledger.TenantID, filter PeriodFilter) (ProfitLoss, error) {
	if s == nil || s.repo == nil {
		return ProfitLoss{}, errors.New("reports: service not initialised")
	}
	ch, err := s.loadChart(ctx, tenantID)
	if err != nil {
		return ProfitLoss{}, err
	}
	mv, err := s.repo.MovementTotals(ctx, tenantID, ledger.RangeFilter(filter.From, filter.To))
	if err != nil {
		return ProfitLoss{}, err
	}
	stock, err := s.stockValuation(ctx, tenantID)
	if err != nil {
		return ProfitLoss{}, err
	}
	return BuildProfitLoss(ch, mv, stock, filter.From, filter.To), nil
}

// BalanceSheet computes the balance sheet as on a date. The current fiscal
// year's result is derived through the P&L core and folded into equity.
func (s *Service) BalanceSheet(ctx context.Context, tenantID ledger.TenantID, asOn time.Time) (BalanceSheet, error) {
	if s == nil || s.repo == nil {
		return BalanceSheet{}, errors.New("reports: service not initialised")
	}
	ch, err := s.loadChart(ctx, tenantID)
	if err != nil {
		return BalanceSheet{}, err
	}
	stock, err := s.stockValuation(ctx, tenantID)
	if err != nil {
		return BalanceSheet{}, err
	}

	fyMovements, err := s.repo.MovementTotals(ctx, tenantID, ledger.RangeFilter(FiscalYearStart(asOn), asOn))
	if err != nil {
		return BalanceSheet{}, err
	}
	pl := BuildProfitLoss(ch, fyMovements, stock, FiscalYearStart(asOn), asOn)

	mv, err := s.repo.MovementTotals(ctx, tenantID, ledger.AsOnFilter(asOn))
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(ch, mv, stock, pl.Totals.NetProfit, asOn), nil
}

// LedgerStatement computes one ledger's chronological statement. An unknown
// ledger id surfaces ledger.ErrLedgerNotFound to the caller.
func (s *Service) LedgerStatement(ctx context.Context, tenantID ledger.TenantID, filter StatementFilter) (LedgerStatement, error) {
	if s == nil || s.repo == nil {
		return LedgerStatement{}, errors.New("reports: service not initialised")
	}
	l, err := s.repo.GetLedger(ctx, tenantID, filter.LedgerID)
	if err != nil {
		return LedgerStatement{}, err
	}
	groups, err := s.repo.ListAccountGroups(ctx, tenantID)
	if err != nil {
		return LedgerStatement{}, err
	}
	var groupName string
	for _, g := range groups {
		if g.ID == l.AccountGroupID {
			groupName = g.Name
			break
		}
	}

	before, err := s.repo.MovementTotals(ctx, tenantID, ledger.BeforeFilter(filter.From))
	if err != nil {
		return LedgerStatement{}, err
	}
	entries, err := s.repo.LedgerEntries(ctx, tenantID, filter.LedgerID, filter.From, filter.To)
	if err != nil {
		return LedgerStatement{}, err
	}
	return BuildLedgerStatement(l, groupName, Movements(before).At(l.ID), entries, filter.From, filter.To), nil
}

func (s *Service) loadChart(ctx context.Context, tenantID ledger.TenantID) (Chart, error) {
	groups, err := s.repo.ListAccountGroups(ctx, tenantID)
	if err != nil {
		return Chart{}, err
	}
	ledgers, err := s.repo.ListActiveLedgers(ctx, tenantID)
	if err != nil {
		return Chart{}, err
	}
	return NewChart(groups, ledgers, s.logger), nil
}

func (s *Service) stockValuation(ctx context.Context, tenantID ledger.TenantID) (StockValuation, error) {
	items, err := s.repo.ActiveInventoryItems(ctx, tenantID)
	if err != nil {
		return StockValuation{}, err
	}
	return ValueStock(items), nil
}
