package reports

import (
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

// Synthetic row labels bracketing a ledger statement.
const (
	openingRowLabel = "Opening Balance"
	closingRowLabel = "Closing Balance"
)

// StatementRow is one line of a ledger statement. Balance is the running
// balance after the row, positive on the ledger's natural side.
type StatementRow struct {
	Date          time.Time
	VoucherNumber string
	VoucherType   string
	Narration     string
	Debit         float64
	Credit        float64
	Balance       float64
	Synthetic     bool
}

// StatementSummary totals the period's activity.
type StatementSummary struct {
	TotalDebit  float64
	TotalCredit float64
	EntryCount  int
}

// LedgerStatement is the chronological activity of one ledger with a
// running balance, bracketed by synthetic opening and closing rows.
type LedgerStatement struct {
	Ledger         ledger.Ledger
	GroupName      string
	From           time.Time
	To             time.Time
	OpeningBalance float64
	ClosingBalance float64
	Rows           []StatementRow
	Summary        StatementSummary
}

// BuildLedgerStatement walks the period's entries in order, maintaining a
// running balance seeded from all posted movement strictly before the
// period. The closing balance equals the opening balance of the
// immediately following period.
func BuildLedgerStatement(l ledger.Ledger, groupName string, before ledger.Movement, entries []ledger.StatementEntry, from, to time.Time) LedgerStatement {
	st := LedgerStatement{
		Ledger:         l,
		GroupName:      groupName,
		From:           from,
		To:             to,
		OpeningBalance: NaturalBalance(l, before),
	}

	balance := st.OpeningBalance
	st.Rows = append(st.Rows, StatementRow{
		Date:      from,
		Narration: openingRowLabel,
		Balance:   balance,
		Synthetic: true,
	})
	for _, e := range entries {
		if l.IsDebitNatured() {
			balance += e.Debit - e.Credit
		} else {
			balance += e.Credit - e.Debit
		}
		st.Rows = append(st.Rows, StatementRow{
			Date:          e.VoucherDate,
			VoucherNumber: e.VoucherNumber,
			VoucherType:   e.VoucherType,
			Narration:     e.Narration,
			Debit:         e.Debit,
			Credit:        e.Credit,
			Balance:       balance,
		})
		st.Summary.TotalDebit += e.Debit
		st.Summary.TotalCredit += e.Credit
		st.Summary.EntryCount++
	}
	st.ClosingBalance = balance
	st.Rows = append(st.Rows, StatementRow{
		Date:      to,
		Narration: closingRowLabel,
		Balance:   balance,
		Synthetic: true,
	})
	return st
}
