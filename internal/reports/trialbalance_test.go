package reports

import (
	"testing"
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

func TestBuildTrialBalanceBalancedBooks(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "CA-01", "Cash", grpCurrentAsset, 0, ledger.SideDebit),
		testLedger(2, "CAP-01", "Proprietor Capital", grpCapital, 0, ledger.SideCredit),
		testLedger(3, "SAL-01", "Sales Local", grpSales, 0, ledger.SideCredit),
	})
	mv := Movements{
		1: {Debit: 150000, Credit: 30000}, // 120000 Dr
		2: {Credit: 100000},               // 100000 Cr
		3: {Credit: 20000},                // 20000 Cr
	}

	tb := BuildTrialBalance(ch, mv, date(2026, time.March, 31), nil)
	if !within(tb.TotalDebit, 120000) {
		t.Fatalf("expected total debit 120000 got %v", tb.TotalDebit)
	}
	if !within(tb.TotalCredit, 120000) {
		t.Fatalf("expected total credit 120000 got %v", tb.TotalCredit)
	}
	if !within(tb.Difference, 0) {
		t.Fatalf("expected zero difference got %v", tb.Difference)
	}
	if len(tb.Rows()) != 3 {
		t.Fatalf("expected 3 rows got %d", len(tb.Rows()))
	}
}

func TestBuildTrialBalanceSplitsSides(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "CL-01", "Supplier", grpCurrentLiability, 1000, ledger.SideCredit),
		testLedger(2, "CA-01", "Bank", grpCurrentAsset, 500, ledger.SideDebit),
	})
	mv := Movements{
		1: {Debit: 200, Credit: 500},
		2: {Debit: 300},
	}

	tb := BuildTrialBalance(ch, mv, date(2026, time.March, 31), nil)
	rows := tb.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	byCode := map[string]TrialBalanceRow{}
	for _, row := range rows {
		byCode[row.LedgerCode] = row
	}
	supplier := byCode["CL-01"]
	if !within(supplier.Credit, 1300) || supplier.Debit != 0 {
		t.Fatalf("expected supplier 1300 Cr got %v Dr / %v Cr", supplier.Debit, supplier.Credit)
	}
	bank := byCode["CA-01"]
	if !within(bank.Debit, 800) || bank.Credit != 0 {
		t.Fatalf("expected bank 800 Dr got %v Dr / %v Cr", bank.Debit, bank.Credit)
	}
}

func TestBuildTrialBalanceSkipsSettledLedgers(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "CA-01", "Cash", grpCurrentAsset, 100, ledger.SideDebit),
		testLedger(2, "CA-02", "Petty Cash", grpCurrentAsset, 0.004, ledger.SideDebit),
	})
	mv := Movements{1: {Credit: 99.995}}

	tb := BuildTrialBalance(ch, mv, date(2026, time.March, 31), nil)
	if len(tb.Rows()) != 0 {
		t.Fatalf("expected no rows got %d", len(tb.Rows()))
	}
	if len(tb.Groups) != 0 {
		t.Fatalf("expected no groups got %d", len(tb.Groups))
	}
}

func TestBuildTrialBalanceGroupSubtotals(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "CA-01", "Cash", grpCurrentAsset, 100, ledger.SideDebit),
		testLedger(2, "CA-02", "Bank", grpCurrentAsset, 400, ledger.SideDebit),
		testLedger(3, "CL-01", "Supplier", grpCurrentLiability, 500, ledger.SideCredit),
	})

	tb := BuildTrialBalance(ch, Movements{}, date(2026, time.March, 31), nil)
	if len(tb.Groups) != 2 {
		t.Fatalf("expected 2 groups got %d", len(tb.Groups))
	}
	// Groups come out sorted by code: CA before CL.
	if tb.Groups[0].GroupCode != "CA" || !within(tb.Groups[0].Debit, 500) {
		t.Fatalf("unexpected first group %s %v Dr", tb.Groups[0].GroupCode, tb.Groups[0].Debit)
	}
	if tb.Groups[1].GroupCode != "CL" || !within(tb.Groups[1].Credit, 500) {
		t.Fatalf("unexpected second group %s %v Cr", tb.Groups[1].GroupCode, tb.Groups[1].Credit)
	}
}

func TestBuildTrialBalanceReportsImbalance(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "CA-01", "Cash", grpCurrentAsset, 0, ledger.SideDebit),
		testLedger(2, "CL-01", "Supplier", grpCurrentLiability, 0, ledger.SideCredit),
	})
	mv := Movements{1: {Debit: 1000}, 2: {Credit: 900}}

	tb := BuildTrialBalance(ch, mv, date(2026, time.March, 31), nil)
	if !within(tb.Difference, 100) {
		t.Fatalf("expected difference 100 got %v", tb.Difference)
	}
}

func TestBuildTrialBalanceCarriesFromDate(t *testing.T) {
	from := date(2025, time.April, 1)
	ch := testChart([]ledger.Ledger{
		testLedger(1, "CA-01", "Cash", grpCurrentAsset, 100, ledger.SideDebit),
	})

	tb := BuildTrialBalance(ch, Movements{}, date(2026, time.March, 31), &from)
	if tb.From == nil || !tb.From.Equal(from) {
		t.Fatalf("expected from date %s got %v", from, tb.From)
	}
}
