package reports

import (
	"testing"

	"github.com/khata-erp/khata-erp/internal/ledger"
	_ "github.com/khata-erp/khata-erp/testing"
)

func TestSignedBalanceCreditLedger(t *testing.T) {
	l := testLedger(1, "L-1", "Supplier", grpCurrentLiability, 1000, ledger.SideCredit)
	m := ledger.Movement{Debit: 200, Credit: 500}

	signed := SignedBalance(l, m)
	if !within(signed, -1300) {
		t.Fatalf("expected signed balance -1300 got %v", signed)
	}
	if natural := NaturalBalance(l, m); !within(natural, 1300) {
		t.Fatalf("expected natural balance 1300 got %v", natural)
	}
}

func TestSignedBalanceDebitLedger(t *testing.T) {
	l := testLedger(1, "L-1", "Cash", grpCurrentAsset, 1000, ledger.SideDebit)
	m := ledger.Movement{Debit: 200, Credit: 500}

	signed := SignedBalance(l, m)
	if !within(signed, 700) {
		t.Fatalf("expected signed balance 700 got %v", signed)
	}
	if natural := NaturalBalance(l, m); !within(natural, 700) {
		t.Fatalf("expected natural balance 700 got %v", natural)
	}
}

func TestIsZeroTolerance(t *testing.T) {
	if !isZero(0.008) || !isZero(-0.008) {
		t.Fatalf("amounts inside the tolerance must read as zero")
	}
	if isZero(0.01) {
		t.Fatalf("0.01 must not read as zero")
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(10.005); got != 10.01 {
		t.Fatalf("expected 10.01 got %v", got)
	}
	if got := Round2(-2.675); got != -2.68 {
		t.Fatalf("expected -2.68 got %v", got)
	}
}
