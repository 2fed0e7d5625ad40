package reports

import (
	"testing"
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

func TestBuildBalanceSheetIdentity(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "CA-01", "Cash", grpCurrentAsset, 100000, ledger.SideDebit),
		testLedger(2, "CAP-01", "Proprietor Capital", grpCapital, 100000, ledger.SideCredit),
		testLedger(3, "SAL-01", "Sales Local", grpSales, 0, ledger.SideCredit),
	})
	// A 50000 cash sale: the sales ledger stays out of the balance sheet,
	// its effect arrives through the folded net profit.
	mv := Movements{
		1: {Debit: 50000},
		3: {Credit: 50000},
	}

	bs := BuildBalanceSheet(ch, mv, StockValuation{}, 50000, date(2026, time.March, 31))
	if !within(bs.TotalAssets, 150000) {
		t.Fatalf("expected total assets 150000 got %v", bs.TotalAssets)
	}
	if !within(bs.TotalLiabilities, 150000) {
		t.Fatalf("expected total liabilities 150000 got %v", bs.TotalLiabilities)
	}
	if !bs.IsBalanced {
		t.Fatalf("expected a balanced sheet, difference %v", bs.Difference)
	}
}

func TestBuildBalanceSheetClassifiesSections(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "FA-01", "Plant & Machinery", grpFixedAsset, 80000, ledger.SideDebit),
		testLedger(2, "CA-01", "Bank", grpCurrentAsset, 20000, ledger.SideDebit),
		testLedger(3, "CL-01", "Sundry Creditors", grpCurrentLiability, 10000, ledger.SideCredit),
		testLedger(4, "LOAN-01", "Term Loan", grpLoan, 5000, ledger.SideCredit),
		testLedger(5, "CAP-01", "Proprietor Capital", grpCapital, 10000, ledger.SideCredit),
	})

	bs := BuildBalanceSheet(ch, Movements{}, StockValuation{}, 75000, date(2026, time.March, 31))
	if !within(bs.FixedAssets.Total, 80000) {
		t.Fatalf("expected fixed assets 80000 got %v", bs.FixedAssets.Total)
	}
	if !within(bs.CurrentAssets.Total, 20000) {
		t.Fatalf("expected current assets 20000 got %v", bs.CurrentAssets.Total)
	}
	if !within(bs.CurrentLiabilities.Total, 10000) {
		t.Fatalf("expected current liabilities 10000 got %v", bs.CurrentLiabilities.Total)
	}
	if !within(bs.NoncurrentLiabilities.Total, 5000) {
		t.Fatalf("expected loans 5000 got %v", bs.NoncurrentLiabilities.Total)
	}
	if !within(bs.Capital.Total, 10000) {
		t.Fatalf("expected capital 10000 got %v", bs.Capital.Total)
	}
	if !bs.IsBalanced {
		t.Fatalf("expected a balanced sheet, difference %v", bs.Difference)
	}

	ratios := bs.Ratios
	if !within(ratios.CurrentRatio, 2.0) {
		t.Fatalf("expected current ratio 2.0 got %v", ratios.CurrentRatio)
	}
	if !within(ratios.WorkingCapital, 10000) {
		t.Fatalf("expected working capital 10000 got %v", ratios.WorkingCapital)
	}
	if !within(ratios.DebtToEquity, 0.5) {
		t.Fatalf("expected debt to equity 0.5 got %v", ratios.DebtToEquity)
	}
}

func TestBuildBalanceSheetNetsGSTPayable(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "DUTY-01", "Input CGST", grpDuty, 0, ledger.SideDebit),
		testLedger(2, "DUTY-02", "Output CGST", grpDuty, 0, ledger.SideCredit),
	})
	mv := Movements{
		1: {Debit: 9000},
		2: {Credit: 15000},
	}

	bs := BuildBalanceSheet(ch, mv, StockValuation{}, 0, date(2026, time.March, 31))
	if !within(bs.Tax.NetGSTPayable, 6000) {
		t.Fatalf("expected net GST payable 6000 got %v", bs.Tax.NetGSTPayable)
	}
	line := findLine(bs.CurrentLiabilities, "Net GST Payable")
	if line == nil || !within(line.Amount, 6000) {
		t.Fatalf("expected a 6000 Net GST Payable line: %+v", bs.CurrentLiabilities.Lines)
	}
	if findLine(bs.CurrentAssets, "Net GST Receivable") != nil {
		t.Fatalf("receivable line must not appear when GST nets payable")
	}
	// Individual tax ledgers never appear as rows.
	for _, l := range bs.CurrentLiabilities.Lines {
		if l.LedgerID != 0 {
			t.Fatalf("tax ledger leaked into listing: %+v", l)
		}
	}
}

func TestBuildBalanceSheetNetsGSTReceivable(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "DUTY-01", "Input CGST", grpDuty, 0, ledger.SideDebit),
		testLedger(2, "DUTY-02", "Output CGST", grpDuty, 0, ledger.SideCredit),
	})
	mv := Movements{
		1: {Debit: 15000},
		2: {Credit: 9000},
	}

	bs := BuildBalanceSheet(ch, mv, StockValuation{}, 0, date(2026, time.March, 31))
	if !within(bs.Tax.NetGSTPayable, -6000) {
		t.Fatalf("expected net GST payable -6000 got %v", bs.Tax.NetGSTPayable)
	}
	line := findLine(bs.CurrentAssets, "Net GST Receivable")
	if line == nil || !within(line.Amount, 6000) {
		t.Fatalf("expected a 6000 Net GST Receivable line: %+v", bs.CurrentAssets.Lines)
	}
}

func TestBuildBalanceSheetTDSLines(t *testing.T) {
	ch := testChart([]ledger.Ledger{
		testLedger(1, "DUTY-03", "TDS Payable", grpDuty, 0, ledger.SideCredit),
		testLedger(2, "DUTY-04", "TDS Receivable", grpDuty, 0, ledger.SideDebit),
	})
	mv := Movements{
		1: {Credit: 2000},
		2: {Debit: 1500},
	}

	bs := BuildBalanceSheet(ch, mv, StockValuation{}, 0, date(2026, time.March, 31))
	if line := findLine(bs.CurrentLiabilities, "TDS Payable"); line == nil || !within(line.Amount, 2000) {
		t.Fatalf("expected a 2000 TDS Payable line: %+v", bs.CurrentLiabilities.Lines)
	}
	if line := findLine(bs.CurrentAssets, "TDS Receivable"); line == nil || !within(line.Amount, 1500) {
		t.Fatalf("expected a 1500 TDS Receivable line: %+v", bs.CurrentAssets.Lines)
	}
}

func TestBuildBalanceSheetStockInHand(t *testing.T) {
	ch := testChart(nil)

	bs := BuildBalanceSheet(ch, Movements{}, StockValuation{ClosingStock: 5000}, 0, date(2026, time.March, 31))
	line := findLine(bs.CurrentAssets, "Stock In Hand")
	if line == nil || !within(line.Amount, 5000) || !line.Synthetic {
		t.Fatalf("expected a synthetic 5000 Stock In Hand line: %+v", bs.CurrentAssets.Lines)
	}
}

func findLine(section BSSection, name string) *BSLine {
	for i := range section.Lines {
		if section.Lines[i].LedgerName == name {
			return &section.Lines[i]
		}
	}
	return nil
}
