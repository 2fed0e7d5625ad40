package reports

import (
	"math"
	"sort"
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

// TrialBalanceRow is one nonzero ledger balance split into Dr/Cr columns.
type TrialBalanceRow struct {
	LedgerID   int64
	LedgerCode string
	LedgerName string
	GroupCode  string
	GroupName  string
	Nature     ledger.Nature
	Debit      float64
	Credit     float64
}

// TrialBalanceGroup subtotals rows per account group.
type TrialBalanceGroup struct {
	GroupCode string
	GroupName string
	Rows      []TrialBalanceRow
	Debit     float64
	Credit    float64
}

// TrialBalance lists every nonzero ledger balance plus column totals. The
// difference is a diagnostic: dirty data is reported, never raised.
type TrialBalance struct {
	AsOn        time.Time
	From        *time.Time
	Groups      []TrialBalanceGroup
	TotalDebit  float64
	TotalCredit float64
	Difference  float64
}

// BuildTrialBalance splits each active ledger's signed balance into debit
// or credit columns and totals them per group and overall.
func BuildTrialBalance(ch Chart, mv Movements, asOn time.Time, from *time.Time) TrialBalance {
	groups := make(map[string]*TrialBalanceGroup)
	keys := make([]string, 0)

	tb := TrialBalance{AsOn: asOn, From: from}
	for _, l := range ch.Ledgers {
		balance := SignedBalance(l, mv.At(l.ID))
		if isZero(balance) {
			continue
		}
		group := ch.Group(l)
		row := TrialBalanceRow{
			LedgerID:   l.ID,
			LedgerCode: l.LedgerCode,
			LedgerName: l.LedgerName,
			GroupCode:  group.GroupCode,
			GroupName:  group.Name,
			Nature:     group.Nature,
		}
		if balance > 0 {
			row.Debit = balance
		} else {
			row.Credit = -balance
		}
		grp, ok := groups[group.GroupCode]
		if !ok {
			grp = &TrialBalanceGroup{GroupCode: group.GroupCode, GroupName: group.Name}
			groups[group.GroupCode] = grp
			keys = append(keys, group.GroupCode)
		}
		grp.Rows = append(grp.Rows, row)
		grp.Debit += row.Debit
		grp.Credit += row.Credit
	}

	sort.Strings(keys)
	for _, key := range keys {
		grp := groups[key]
		sort.Slice(grp.Rows, func(i, j int) bool {
			return grp.Rows[i].LedgerCode < grp.Rows[j].LedgerCode
		})
		tb.Groups = append(tb.Groups, *grp)
		tb.TotalDebit += grp.Debit
		tb.TotalCredit += grp.Credit
	}
	tb.Difference = math.Abs(tb.TotalDebit - tb.TotalCredit)
	return tb
}

// Rows flattens the grouped rows in group, then ledger-code order.
func (tb TrialBalance) Rows() []TrialBalanceRow {
	var rows []TrialBalanceRow
	for _, grp := range tb.Groups {
		rows = append(rows, grp.Rows...)
	}
	return rows
}
