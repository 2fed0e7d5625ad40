package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Nature enumerates the fundamental account classifications.
type Nature string

const (
	NatureAsset     Nature = "ASSET"
	NatureLiability Nature = "LIABILITY"
	NatureIncome    Nature = "INCOME"
	NatureExpense   Nature = "EXPENSE"
	NatureEquity    Nature = "EQUITY"
)

// IsDebitNature reports whether balances of this nature accumulate on the debit side.
func (n Nature) IsDebitNature() bool {
	return n == NatureAsset || n == NatureExpense
}

// BalanceSide enumerates the two sides of a double-entry posting.
type BalanceSide string

const (
	SideDebit  BalanceSide = "DEBIT"
	SideCredit BalanceSide = "CREDIT"
)

// BSCategory enumerates balance sheet buckets. Meaningful only for
// balance-sheet natured groups.
type BSCategory string

const (
	BSCategoryFixedAsset          BSCategory = "FIXED_ASSET"
	BSCategoryCurrentAsset        BSCategory = "CURRENT_ASSET"
	BSCategoryInvestment          BSCategory = "INVESTMENT"
	BSCategoryCurrentLiability    BSCategory = "CURRENT_LIABILITY"
	BSCategoryNoncurrentLiability BSCategory = "NONCURRENT_LIABILITY"
	BSCategoryEquity              BSCategory = "EQUITY"
	BSCategoryOther               BSCategory = "OTHER"
)

// VoucherStatus enumerates voucher lifecycle values. Only posted vouchers
// are visible to any report.
type VoucherStatus string

const (
	VoucherStatusDraft     VoucherStatus = "DRAFT"
	VoucherStatusPosted    VoucherStatus = "POSTED"
	VoucherStatusCancelled VoucherStatus = "CANCELLED"
)

// AccountGroup is static metadata describing how its ledgers behave.
// A group's nature never changes once ledgers reference it.
type AccountGroup struct {
	ID                 int64
	GroupCode          string
	Name               string
	Nature             Nature
	BSCategory         BSCategory
	AffectsPL          bool
	AffectsGrossProfit bool
	IsTaxGroup         bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Ledger is a single account in the chart of accounts.
type Ledger struct {
	ID             int64
	LedgerCode     string
	LedgerName     string
	AccountGroupID int64
	OpeningBalance float64
	BalanceType    BalanceSide
	CurrentBalance float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsDebitNatured reports whether the ledger's natural balance side is debit.
func (l Ledger) IsDebitNatured() bool {
	return l.BalanceType != SideCredit
}

// Movement carries unsigned debit/credit sums for one ledger over a window.
type Movement struct {
	Debit  float64
	Credit float64
}

// MovementFilter constrains the voucher dates considered by an aggregation.
// Exactly one of the bounds below is set, or none for an unbounded scan.
type MovementFilter struct {
	AsOn   *time.Time // voucher_date <= AsOn
	Before *time.Time // voucher_date < Before
	From   *time.Time // inclusive lower bound, paired with To
	To     *time.Time // inclusive upper bound, paired with From
}

// AsOnFilter bounds the aggregation to postings on or before the date.
func AsOnFilter(date time.Time) MovementFilter {
	return MovementFilter{AsOn: &date}
}

// BeforeFilter bounds the aggregation to postings strictly before the date.
func BeforeFilter(date time.Time) MovementFilter {
	return MovementFilter{Before: &date}
}

// RangeFilter bounds the aggregation to the inclusive date range.
func RangeFilter(from, to time.Time) MovementFilter {
	return MovementFilter{From: &from, To: &to}
}

// StatementEntry is one posted voucher line for a single ledger, as consumed
// by the ledger statement report.
type StatementEntry struct {
	VoucherID     int64
	VoucherDate   time.Time
	VoucherNumber string
	VoucherType   string
	Narration     string
	Debit         float64
	Credit        float64
}

// InventoryItem holds the stock fields used for valuation. Inventory does
// not flow through ledger entries in this engine's view.
type InventoryItem struct {
	ID             int64
	QuantityOnHand float64
	AvgCost        float64
	OpeningBalance float64
	IsActive       bool
}

// TenantID identifies one tenant's dataset. Every repository call is scoped
// by an explicit tenant, never by ambient state.
type TenantID = uuid.UUID

var (
	// ErrLedgerNotFound indicates an unknown ledger id.
	ErrLedgerNotFound = errors.New("ledger: ledger not found")
	// ErrGroupNotFound indicates an unknown account group id.
	ErrGroupNotFound = errors.New("ledger: account group not found")
)
