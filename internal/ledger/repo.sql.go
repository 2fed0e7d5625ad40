package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads tenant-scoped ledger data from Postgres. All queries are
// read-only; report generation never mutates voucher or ledger state.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAccountGroups returns every account group for the tenant.
func (r *Repository) ListAccountGroups(ctx context.Context, tenantID TenantID) ([]AccountGroup, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, group_code, name, nature, bs_category, affects_pl, affects_gross_profit, is_tax_group, created_at, updated_at
FROM account_groups WHERE tenant_id=$1 ORDER BY group_code`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []AccountGroup
	for rows.Next() {
		var g AccountGroup
		err := rows.Scan(&g.ID, &g.GroupCode, &g.Name, &g.Nature, &g.BSCategory, &g.AffectsPL, &g.AffectsGrossProfit, &g.IsTaxGroup, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListActiveLedgers returns the tenant's active chart of accounts entries.
func (r *Repository) ListActiveLedgers(ctx context.Context, tenantID TenantID) ([]Ledger, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, ledger_code, ledger_name, account_group_id, opening_balance, balance_type, current_balance, is_active, created_at, updated_at
FROM ledgers WHERE tenant_id=$1 AND is_active ORDER BY ledger_code`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ledgers []Ledger
	for rows.Next() {
		var l Ledger
		err := rows.Scan(&l.ID, &l.LedgerCode, &l.LedgerName, &l.AccountGroupID, &l.OpeningBalance, &l.BalanceType, &l.CurrentBalance, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

// GetLedger fetches one ledger by id.
func (r *Repository) GetLedger(ctx context.Context, tenantID TenantID, ledgerID int64) (Ledger, error) {
	var l Ledger
	err := r.pool.QueryRow(ctx, `SELECT id, ledger_code, ledger_name, account_group_id, opening_balance, balance_type, current_balance, is_active, created_at, updated_at
FROM ledgers WHERE tenant_id=$1 AND id=$2`, tenantID, ledgerID).
		Scan(&l.ID, &l.LedgerCode, &l.LedgerName, &l.AccountGroupID, &l.OpeningBalance, &l.BalanceType, &l.CurrentBalance, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ledger{}, ErrLedgerNotFound
		}
		return Ledger{}, err
	}
	return l, nil
}

// MovementTotals sums posted debit/credit amounts per ledger within the
// filter window. One aggregate query covers the whole chart; ledgers with
// no matching entries are absent from the result.
func (r *Repository) MovementTotals(ctx context.Context, tenantID TenantID, filter MovementFilter) (map[int64]Movement, error) {
	query := `SELECT e.ledger_id, COALESCE(SUM(e.debit_amount),0), COALESCE(SUM(e.credit_amount),0)
FROM voucher_ledger_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE v.tenant_id=$1 AND v.status='POSTED'`
	args := []any{tenantID}
	switch {
	case filter.AsOn != nil:
		query += ` AND v.voucher_date <= $2`
		args = append(args, *filter.AsOn)
	case filter.Before != nil:
		query += ` AND v.voucher_date < $2`
		args = append(args, *filter.Before)
	case filter.From != nil && filter.To != nil:
		query += ` AND v.voucher_date BETWEEN $2 AND $3`
		args = append(args, *filter.From, *filter.To)
	}
	query += ` GROUP BY e.ledger_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movements := make(map[int64]Movement)
	for rows.Next() {
		var id int64
		var m Movement
		if err := rows.Scan(&id, &m.Debit, &m.Credit); err != nil {
			return nil, err
		}
		movements[id] = m
	}
	return movements, rows.Err()
}

// LedgerEntries lists posted entries for one ledger within the inclusive
// date range, ordered by voucher date, voucher number, then insertion order.
func (r *Repository) LedgerEntries(ctx context.Context, tenantID TenantID, ledgerID int64, from, to time.Time) ([]StatementEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT v.id, v.voucher_date, v.voucher_number, v.voucher_type, COALESCE(v.narration,''), e.debit_amount, e.credit_amount
FROM voucher_ledger_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE v.tenant_id=$1 AND v.status='POSTED' AND e.ledger_id=$2 AND v.voucher_date BETWEEN $3 AND $4
ORDER BY v.voucher_date, v.voucher_number, e.id`, tenantID, ledgerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []StatementEntry
	for rows.Next() {
		var e StatementEntry
		err := rows.Scan(&e.VoucherID, &e.VoucherDate, &e.VoucherNumber, &e.VoucherType, &e.Narration, &e.Debit, &e.Credit)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ActiveInventoryItems returns the tenant's active stock items for valuation.
func (r *Repository) ActiveInventoryItems(ctx context.Context, tenantID TenantID) ([]InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, quantity_on_hand, avg_cost, opening_balance, is_active
FROM inventory_items WHERE tenant_id=$1 AND is_active`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryItem
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.ID, &it.QuantityOnHand, &it.AvgCost, &it.OpeningBalance, &it.IsActive); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListTenants returns every tenant with at least one active ledger. Used by
// the background warmup and integrity jobs.
func (r *Repository) ListTenants(ctx context.Context) ([]TenantID, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT tenant_id FROM ledgers WHERE is_active ORDER BY tenant_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tenants []TenantID
	for rows.Next() {
		var id TenantID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		tenants = append(tenants, id)
	}
	return tenants, rows.Err()
}
