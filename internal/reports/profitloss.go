package reports

import (
	"sort"
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

// CostMethod identifies which COGS convention applied to a period.
type CostMethod string

const (
	// CostMethodPeriodic derives COGS from opening stock, net purchases,
	// direct expenses, and closing stock.
	CostMethodPeriodic CostMethod = "PERIODIC"
	// CostMethodPerpetual reads COGS straight from the COGS ledger posted on
	// each sale; purchases never transit the Trading Account.
	CostMethodPerpetual CostMethod = "PERPETUAL"
)

const perpetualNote = "COGS ledger is posted per sale; purchases are capitalised into inventory and reported as zero here"

// PLLine is one ledger's contribution to a P&L bucket.
type PLLine struct {
	LedgerID   int64
	LedgerCode string
	LedgerName string
	Amount     float64
}

// StatementTotals is the single intermediate structure both the simplified
// and the two-column renderings are mapped from.
type StatementTotals struct {
	TotalSales          float64
	TotalSalesReturns   float64
	NetSales            float64
	TotalPurchases      float64
	TotalPurchaseReturns float64
	NetPurchases        float64
	TotalDirectExpenses float64
	TotalDirectIncome   float64
	TotalIndirectExpenses float64
	TotalIndirectIncome float64
	OpeningStock        float64
	ClosingStock        float64
	COGS                float64
	CostMethod          CostMethod
	CostNote            string
	GrossProfit         float64
	NetProfit           float64
	GrossProfitMargin   float64
	NetProfitMargin     float64
}

// ProfitLoss is the Trading and Profit & Loss statement for one period.
type ProfitLoss struct {
	From time.Time
	To   time.Time

	Sales            []PLLine
	SalesReturns     []PLLine
	Purchases        []PLLine
	PurchaseReturns  []PLLine
	DirectExpenses   []PLLine
	DirectIncome     []PLLine
	IndirectExpenses []PLLine
	IndirectIncome   []PLLine

	Totals StatementTotals
}

// BuildProfitLoss classifies period movement of every P&L-natured ledger
// into trading and indirect buckets and computes COGS, gross profit, and
// net profit. Stock-group ledgers are excluded; their value arrives through
// the stock valuation.
func BuildProfitLoss(ch Chart, mv Movements, stock StockValuation, from, to time.Time) ProfitLoss {
	pl := ProfitLoss{From: from, To: to}

	for _, l := range ch.Ledgers {
		role := ch.Roles[l.ID]
		if role == ledger.RoleStock || role.IsTaxRole() {
			continue
		}
		group := ch.Group(l)
		if !group.AffectsPL {
			continue
		}
		m := mv.At(l.ID)
		netDebit := m.Debit - m.Credit

		if role == ledger.RoleRounding {
			// Rounding ledgers swing both ways: a net debit is an indirect
			// expense, a net credit counts as other income.
			switch {
			case netDebit > zeroTolerance:
				pl.IndirectExpenses = appendLine(pl.IndirectExpenses, l, netDebit)
				pl.Totals.TotalIndirectExpenses += netDebit
			case netDebit < -zeroTolerance:
				pl.IndirectIncome = appendLine(pl.IndirectIncome, l, -netDebit)
				pl.Totals.TotalIndirectIncome += -netDebit
			}
			continue
		}

		switch role {
		case ledger.RoleSales:
			amount := -netDebit
			if isZero(amount) {
				continue
			}
			pl.Sales = appendLine(pl.Sales, l, amount)
			pl.Totals.TotalSales += amount
		case ledger.RoleSalesReturn:
			amount := netDebit
			if isZero(amount) {
				continue
			}
			pl.SalesReturns = appendLine(pl.SalesReturns, l, amount)
			pl.Totals.TotalSalesReturns += amount
		case ledger.RoleOtherIncome:
			amount := -netDebit
			if isZero(amount) {
				continue
			}
			if group.AffectsGrossProfit {
				pl.DirectIncome = appendLine(pl.DirectIncome, l, amount)
				pl.Totals.TotalDirectIncome += amount
			} else {
				pl.IndirectIncome = appendLine(pl.IndirectIncome, l, amount)
				pl.Totals.TotalIndirectIncome += amount
			}
		case ledger.RolePurchase:
			amount := netDebit
			if isZero(amount) {
				continue
			}
			pl.Purchases = appendLine(pl.Purchases, l, amount)
			pl.Totals.TotalPurchases += amount
		case ledger.RolePurchaseReturn:
			amount := -netDebit
			if isZero(amount) {
				continue
			}
			pl.PurchaseReturns = appendLine(pl.PurchaseReturns, l, amount)
			pl.Totals.TotalPurchaseReturns += amount
		case ledger.RoleDirectExpense:
			amount := netDebit
			if isZero(amount) {
				continue
			}
			pl.DirectExpenses = appendLine(pl.DirectExpenses, l, amount)
			pl.Totals.TotalDirectExpenses += amount
		case ledger.RoleIndirectExpense:
			amount := netDebit
			if isZero(amount) {
				continue
			}
			pl.IndirectExpenses = appendLine(pl.IndirectExpenses, l, amount)
			pl.Totals.TotalIndirectExpenses += amount
		}
	}

	sortLines(pl.Sales)
	sortLines(pl.SalesReturns)
	sortLines(pl.Purchases)
	sortLines(pl.PurchaseReturns)
	sortLines(pl.DirectExpenses)
	sortLines(pl.DirectIncome)
	sortLines(pl.IndirectExpenses)
	sortLines(pl.IndirectIncome)

	t := &pl.Totals
	t.NetSales = t.TotalSales - t.TotalSalesReturns
	t.NetPurchases = t.TotalPurchases - t.TotalPurchaseReturns

	if t.TotalPurchases > zeroTolerance {
		t.CostMethod = CostMethodPeriodic
		t.OpeningStock = stock.OpeningStock
		t.ClosingStock = stock.ClosingStock
		t.COGS = t.OpeningStock + t.NetPurchases + t.TotalDirectExpenses - t.ClosingStock
	} else {
		t.CostMethod = CostMethodPerpetual
		t.CostNote = perpetualNote
		t.NetPurchases = 0
		t.COGS = t.TotalDirectExpenses
	}

	t.GrossProfit = t.NetSales + t.TotalDirectIncome - t.COGS
	t.NetProfit = t.GrossProfit + t.TotalIndirectIncome - t.TotalIndirectExpenses
	if t.NetSales > 0 {
		t.GrossProfitMargin = t.GrossProfit / t.NetSales * 100
		t.NetProfitMargin = t.NetProfit / t.NetSales * 100
	}
	return pl
}

// TallyLine is one labelled amount in the two-column rendering.
type TallyLine struct {
	Label  string
	Amount float64
}

// TallyView is the balanced two-column Trading & P&L rendering. Both sides
// total to the same figure by construction.
type TallyView struct {
	Debit       []TallyLine
	Credit      []TallyLine
	DebitTotal  float64
	CreditTotal float64
}

// TallyView maps the statement totals into the traditional two-sided form.
func (pl ProfitLoss) TallyView() TallyView {
	t := pl.Totals
	var view TallyView

	push := func(side *[]TallyLine, total *float64, label string, amount float64) {
		if isZero(amount) {
			return
		}
		*side = append(*side, TallyLine{Label: label, Amount: amount})
		*total += amount
	}

	push(&view.Debit, &view.DebitTotal, "Opening Stock", t.OpeningStock)
	push(&view.Debit, &view.DebitTotal, "Net Purchases", t.NetPurchases)
	push(&view.Debit, &view.DebitTotal, "Direct Expenses", t.TotalDirectExpenses)
	push(&view.Debit, &view.DebitTotal, "Indirect Expenses", t.TotalIndirectExpenses)
	if t.NetProfit > 0 {
		push(&view.Debit, &view.DebitTotal, "Net Profit", t.NetProfit)
	}

	push(&view.Credit, &view.CreditTotal, "Net Sales", t.NetSales)
	push(&view.Credit, &view.CreditTotal, "Closing Stock", t.ClosingStock)
	push(&view.Credit, &view.CreditTotal, "Other Income", t.TotalDirectIncome+t.TotalIndirectIncome)
	if t.NetProfit < 0 {
		push(&view.Credit, &view.CreditTotal, "Net Loss", -t.NetProfit)
	}
	return view
}

func appendLine(lines []PLLine, l ledger.Ledger, amount float64) []PLLine {
	return append(lines, PLLine{
		LedgerID:   l.ID,
		LedgerCode: l.LedgerCode,
		LedgerName: l.LedgerName,
		Amount:     amount,
	})
}

func sortLines(lines []PLLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].LedgerCode < lines[j].LedgerCode })
}
