package reports

import (
	"testing"
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

func TestBuildLedgerStatementDebitLedger(t *testing.T) {
	cash := testLedger(1, "CA-01", "Cash", grpCurrentAsset, 1000, ledger.SideDebit)
	entries := []ledger.StatementEntry{
		{VoucherID: 1, VoucherDate: date(2025, time.April, 2), VoucherNumber: "RV-001", VoucherType: "RECEIPT", Narration: "Cash sale", Debit: 500},
		{VoucherID: 2, VoucherDate: date(2025, time.April, 5), VoucherNumber: "PV-001", VoucherType: "PAYMENT", Narration: "Rent paid", Credit: 200},
	}

	st := BuildLedgerStatement(cash, "CA", ledger.Movement{}, entries, date(2025, time.April, 1), date(2025, time.April, 30))
	if !within(st.OpeningBalance, 1000) {
		t.Fatalf("expected opening 1000 got %v", st.OpeningBalance)
	}
	if !within(st.ClosingBalance, 1300) {
		t.Fatalf("expected closing 1300 got %v", st.ClosingBalance)
	}
	// Synthetic opening + 2 entries + synthetic closing.
	if len(st.Rows) != 4 {
		t.Fatalf("expected 4 rows got %d", len(st.Rows))
	}
	if !st.Rows[0].Synthetic || st.Rows[0].Narration != "Opening Balance" {
		t.Fatalf("expected synthetic opening row got %+v", st.Rows[0])
	}
	if !within(st.Rows[1].Balance, 1500) {
		t.Fatalf("expected running balance 1500 after receipt got %v", st.Rows[1].Balance)
	}
	if !within(st.Rows[2].Balance, 1300) {
		t.Fatalf("expected running balance 1300 after payment got %v", st.Rows[2].Balance)
	}
	if !st.Rows[3].Synthetic || st.Rows[3].Narration != "Closing Balance" {
		t.Fatalf("expected synthetic closing row got %+v", st.Rows[3])
	}
	if st.Summary.EntryCount != 2 || !within(st.Summary.TotalDebit, 500) || !within(st.Summary.TotalCredit, 200) {
		t.Fatalf("unexpected summary %+v", st.Summary)
	}
}

func TestBuildLedgerStatementCreditLedger(t *testing.T) {
	supplier := testLedger(2, "CL-01", "Sundry Creditors", grpCurrentLiability, 1000, ledger.SideCredit)
	before := ledger.Movement{Debit: 200, Credit: 500}
	entries := []ledger.StatementEntry{
		{VoucherID: 3, VoucherDate: date(2025, time.May, 3), VoucherNumber: "JV-007", VoucherType: "JOURNAL", Narration: "Purchase on credit", Credit: 700},
		{VoucherID: 4, VoucherDate: date(2025, time.May, 9), VoucherNumber: "PV-015", VoucherType: "PAYMENT", Narration: "Part payment", Debit: 300},
	}

	st := BuildLedgerStatement(supplier, "CL", before, entries, date(2025, time.May, 1), date(2025, time.May, 31))
	// Opening: 1000 Cr opening + 500 Cr - 200 Dr posted before May.
	if !within(st.OpeningBalance, 1300) {
		t.Fatalf("expected opening 1300 got %v", st.OpeningBalance)
	}
	if !within(st.Rows[1].Balance, 2000) {
		t.Fatalf("expected balance 2000 after purchase got %v", st.Rows[1].Balance)
	}
	if !within(st.ClosingBalance, 1700) {
		t.Fatalf("expected closing 1700 got %v", st.ClosingBalance)
	}
}

func TestLedgerStatementPeriodContinuity(t *testing.T) {
	cash := testLedger(1, "CA-01", "Cash", grpCurrentAsset, 1000, ledger.SideDebit)
	april := []ledger.StatementEntry{
		{VoucherID: 1, VoucherDate: date(2025, time.April, 10), Narration: "Receipt", Debit: 400},
		{VoucherID: 2, VoucherDate: date(2025, time.April, 20), Narration: "Payment", Credit: 150},
	}

	first := BuildLedgerStatement(cash, "CA", ledger.Movement{}, april, date(2025, time.April, 1), date(2025, time.April, 30))

	// The second period's opening seeds from all movement strictly before
	// May 1, which is exactly April's activity.
	mayBefore := ledger.Movement{Debit: 400, Credit: 150}
	second := BuildLedgerStatement(cash, "CA", mayBefore, nil, date(2025, time.May, 1), date(2025, time.May, 31))
	if !within(second.OpeningBalance, first.ClosingBalance) {
		t.Fatalf("expected continuity: April closed at %v, May opened at %v", first.ClosingBalance, second.OpeningBalance)
	}
}

func TestBuildLedgerStatementEmptyPeriod(t *testing.T) {
	cash := testLedger(1, "CA-01", "Cash", grpCurrentAsset, 250, ledger.SideDebit)

	st := BuildLedgerStatement(cash, "CA", ledger.Movement{}, nil, date(2025, time.June, 1), date(2025, time.June, 30))
	if len(st.Rows) != 2 {
		t.Fatalf("expected only the synthetic rows got %d", len(st.Rows))
	}
	if !within(st.OpeningBalance, 250) || !within(st.ClosingBalance, 250) {
		t.Fatalf("expected flat 250 balance got %v / %v", st.OpeningBalance, st.ClosingBalance)
	}
	if st.Summary.EntryCount != 0 {
		t.Fatalf("expected no entries got %d", st.Summary.EntryCount)
	}
}
