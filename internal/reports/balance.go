package reports

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

// zeroTolerance is the fixed tolerance for all monetary comparisons. A
// ledger whose absolute balance falls within it is treated as settled and
// dropped from listings.
const zeroTolerance = 0.009

// isZero reports whether the amount is effectively zero.
func isZero(v float64) bool {
	return math.Abs(v) <= zeroTolerance
}

// SignedBalance folds a ledger's opening balance and period movement into a
// single debit-positive number: positive means the balance sits on the
// debit side, negative on the credit side.
func SignedBalance(l ledger.Ledger, m ledger.Movement) float64 {
	opening := l.OpeningBalance
	if !l.IsDebitNatured() {
		opening = -opening
	}
	return opening + m.Debit - m.Credit
}

// NaturalBalance returns the balance as a positive magnitude when it sits
// on the ledger's natural side. Credit-natured ledgers accumulate
// credit-minus-debit internally; this flips the sign back for display.
func NaturalBalance(l ledger.Ledger, m ledger.Movement) float64 {
	signed := SignedBalance(l, m)
	if l.IsDebitNatured() {
		return signed
	}
	return -signed
}

// Round2 rounds a monetary amount to two places. Applied only at the
// presentation boundary; internal accumulation keeps full precision.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
