package reports

import (
	"log/slog"
	"math"
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

// Shared fixture group ids. One flat chart covers every report test.
const (
	grpSales int64 = iota + 1
	grpSalesReturn
	grpPurchase
	grpPurchaseReturn
	grpDirectExpense
	grpIndirectExpense
	grpOtherIncome
	grpStock
	grpFixedAsset
	grpCurrentAsset
	grpCurrentLiability
	grpLoan
	grpCapital
	grpDuty
)

func testGroups() []ledger.AccountGroup {
	pl := func(id int64, code string, nature ledger.Nature, gp bool) ledger.AccountGroup {
		return ledger.AccountGroup{ID: id, GroupCode: code, Name: code, Nature: nature, AffectsPL: true, AffectsGrossProfit: gp}
	}
	bs := func(id int64, code string, nature ledger.Nature, cat ledger.BSCategory) ledger.AccountGroup {
		return ledger.AccountGroup{ID: id, GroupCode: code, Name: code, Nature: nature, BSCategory: cat}
	}
	duty := bs(grpDuty, "DUTY", ledger.NatureLiability, ledger.BSCategoryCurrentLiability)
	duty.IsTaxGroup = true
	return []ledger.AccountGroup{
		pl(grpSales, "SAL", ledger.NatureIncome, true),
		pl(grpSalesReturn, "SRET", ledger.NatureIncome, true),
		pl(grpPurchase, "PUR", ledger.NatureExpense, true),
		pl(grpPurchaseReturn, "PRET", ledger.NatureExpense, true),
		pl(grpDirectExpense, "DEXP", ledger.NatureExpense, true),
		pl(grpIndirectExpense, "IEXP", ledger.NatureExpense, false),
		pl(grpOtherIncome, "OINC", ledger.NatureIncome, false),
		bs(grpStock, "INV", ledger.NatureAsset, ledger.BSCategoryCurrentAsset),
		bs(grpFixedAsset, "FA", ledger.NatureAsset, ledger.BSCategoryFixedAsset),
		bs(grpCurrentAsset, "CA", ledger.NatureAsset, ledger.BSCategoryCurrentAsset),
		bs(grpCurrentLiability, "CL", ledger.NatureLiability, ledger.BSCategoryCurrentLiability),
		bs(grpLoan, "LOAN", ledger.NatureLiability, ledger.BSCategoryNoncurrentLiability),
		bs(grpCapital, "CAP", ledger.NatureEquity, ledger.BSCategoryEquity),
		duty,
	}
}

func testLedger(id int64, code, name string, groupID int64, opening float64, side ledger.BalanceSide) ledger.Ledger {
	return ledger.Ledger{
		ID:             id,
		LedgerCode:     code,
		LedgerName:     name,
		AccountGroupID: groupID,
		OpeningBalance: opening,
		BalanceType:    side,
		IsActive:       true,
	}
}

func testChart(ledgers []ledger.Ledger) Chart {
	return NewChart(testGroups(), ledgers, slog.New(slog.DiscardHandler))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func within(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
