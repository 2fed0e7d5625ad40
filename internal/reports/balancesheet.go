package reports

import (
	"math"
	"sort"
	"time"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

// balancedWithin is the looser tolerance used for the asset/liability
// identity check; per-ledger rounding accumulates across a large chart.
const balancedWithin = 1.0

// BSLine is one row of the balance sheet. Synthetic rows (netted tax
// figures, stock in hand) carry no ledger id.
type BSLine struct {
	LedgerID   int64
	LedgerCode string
	LedgerName string
	Amount     float64
	Synthetic  bool
}

// BSSection groups lines under one balance sheet bucket.
type BSSection struct {
	Label string
	Lines []BSLine
	Total float64
}

// TaxNetting carries the accumulated GST/TDS figures before they collapse
// into synthetic lines.
type TaxNetting struct {
	TotalInputGST      float64
	TotalOutputGST     float64
	TotalTDSPayable    float64
	TotalTDSReceivable float64
	NetGSTPayable      float64
}

// FinancialRatios are the derived solvency figures; each is zero when its
// denominator is.
type FinancialRatios struct {
	CurrentRatio   float64
	DebtToEquity   float64
	WorkingCapital float64
}

// BalanceSheet is the statement of assets against liabilities and equity as
// on a date. The imbalance is a diagnostic field, never an error.
type BalanceSheet struct {
	AsOn time.Time

	FixedAssets  BSSection
	CurrentAssets BSSection
	Investments  BSSection
	OtherAssets  BSSection

	Capital               BSSection
	Reserves              BSSection
	CurrentLiabilities    BSSection
	NoncurrentLiabilities BSSection
	OtherLiabilities      BSSection

	NetProfitLoss float64
	Tax           TaxNetting

	TotalAssets      float64
	TotalLiabilities float64
	Difference       float64
	IsBalanced       bool

	Ratios FinancialRatios
}

// BuildBalanceSheet classifies balance-sheet natured ledgers into buckets,
// nets tax ledgers into synthetic lines, folds the current-period result
// into the liabilities side, and checks the accounting identity.
func BuildBalanceSheet(ch Chart, mv Movements, stock StockValuation, netProfitLoss float64, asOn time.Time) BalanceSheet {
	bs := BalanceSheet{
		AsOn:                  asOn,
		FixedAssets:           BSSection{Label: "Fixed Assets"},
		CurrentAssets:         BSSection{Label: "Current Assets"},
		Investments:           BSSection{Label: "Investments"},
		OtherAssets:           BSSection{Label: "Other Assets"},
		Capital:               BSSection{Label: "Capital"},
		Reserves:              BSSection{Label: "Reserves & Surplus"},
		CurrentLiabilities:    BSSection{Label: "Current Liabilities"},
		NoncurrentLiabilities: BSSection{Label: "Non-current Liabilities"},
		OtherLiabilities:      BSSection{Label: "Other Liabilities"},
		NetProfitLoss:         netProfitLoss,
	}

	for _, l := range ch.Ledgers {
		role := ch.Roles[l.ID]
		if role.IsTaxRole() {
			bs.accumulateTax(role, SignedBalance(l, mv.At(l.ID)))
			continue
		}
		group := ch.Group(l)
		if group.AffectsPL || role == ledger.RoleStock {
			continue
		}
		signed := SignedBalance(l, mv.At(l.ID))
		if isZero(signed) {
			continue
		}
		line := BSLine{LedgerID: l.ID, LedgerCode: l.LedgerCode, LedgerName: l.LedgerName}
		switch group.Nature {
		case ledger.NatureAsset:
			line.Amount = signed
			bs.assetSection(group.BSCategory).add(line)
		case ledger.NatureLiability, ledger.NatureEquity:
			line.Amount = -signed
			bs.liabilitySection(group).add(line)
		}
	}

	// Inventory value sits on the asset side regardless of which COGS
	// convention the Trading Account used.
	if !isZero(stock.ClosingStock) {
		bs.CurrentAssets.add(BSLine{LedgerName: "Stock In Hand", Amount: stock.ClosingStock, Synthetic: true})
	}
	bs.emitTaxLines()

	for _, section := range []*BSSection{
		&bs.FixedAssets, &bs.CurrentAssets, &bs.Investments, &bs.OtherAssets,
		&bs.Capital, &bs.Reserves, &bs.CurrentLiabilities, &bs.NoncurrentLiabilities, &bs.OtherLiabilities,
	} {
		section.sortLines()
	}

	bs.TotalAssets = bs.FixedAssets.Total + bs.CurrentAssets.Total + bs.Investments.Total + bs.OtherAssets.Total
	bs.TotalLiabilities = netProfitLoss + bs.Capital.Total + bs.Reserves.Total +
		bs.CurrentLiabilities.Total + bs.NoncurrentLiabilities.Total + bs.OtherLiabilities.Total
	bs.Difference = bs.TotalAssets - bs.TotalLiabilities
	bs.IsBalanced = math.Abs(bs.Difference) < balancedWithin

	bs.Ratios = computeRatios(bs)
	return bs
}

func (bs *BalanceSheet) assetSection(category ledger.BSCategory) *BSSection {
	switch category {
	case ledger.BSCategoryFixedAsset:
		return &bs.FixedAssets
	case ledger.BSCategoryCurrentAsset:
		return &bs.CurrentAssets
	case ledger.BSCategoryInvestment:
		return &bs.Investments
	}
	return &bs.OtherAssets
}

func (bs *BalanceSheet) liabilitySection(group ledger.AccountGroup) *BSSection {
	if ledger.IsCapitalGroup(group) {
		return &bs.Capital
	}
	if group.Nature == ledger.NatureEquity {
		return &bs.Reserves
	}
	switch group.BSCategory {
	case ledger.BSCategoryCurrentLiability:
		return &bs.CurrentLiabilities
	case ledger.BSCategoryNoncurrentLiability:
		return &bs.NoncurrentLiabilities
	}
	return &bs.OtherLiabilities
}

func (bs *BalanceSheet) accumulateTax(role ledger.TradingRole, signed float64) {
	switch role {
	case ledger.RoleTaxInput:
		bs.Tax.TotalInputGST += signed
	case ledger.RoleTaxOutput:
		bs.Tax.TotalOutputGST += -signed
	case ledger.RoleTdsPayable:
		bs.Tax.TotalTDSPayable += -signed
	case ledger.RoleTdsReceivable:
		bs.Tax.TotalTDSReceivable += signed
	}
}

// emitTaxLines collapses the accumulated GST/TDS totals into at most one
// synthetic line per side, skipping figures inside the tolerance.
func (bs *BalanceSheet) emitTaxLines() {
	bs.Tax.NetGSTPayable = bs.Tax.TotalOutputGST - bs.Tax.TotalInputGST
	switch {
	case bs.Tax.NetGSTPayable > zeroTolerance:
		bs.CurrentLiabilities.add(BSLine{LedgerName: "Net GST Payable", Amount: bs.Tax.NetGSTPayable, Synthetic: true})
	case bs.Tax.NetGSTPayable < -zeroTolerance:
		bs.CurrentAssets.add(BSLine{LedgerName: "Net GST Receivable", Amount: -bs.Tax.NetGSTPayable, Synthetic: true})
	}
	if bs.Tax.TotalTDSPayable > zeroTolerance {
		bs.CurrentLiabilities.add(BSLine{LedgerName: "TDS Payable", Amount: bs.Tax.TotalTDSPayable, Synthetic: true})
	}
	if bs.Tax.TotalTDSReceivable > zeroTolerance {
		bs.CurrentAssets.add(BSLine{LedgerName: "TDS Receivable", Amount: bs.Tax.TotalTDSReceivable, Synthetic: true})
	}
}

func computeRatios(bs BalanceSheet) FinancialRatios {
	ratios := FinancialRatios{
		WorkingCapital: bs.CurrentAssets.Total - bs.CurrentLiabilities.Total,
	}
	if bs.CurrentLiabilities.Total != 0 {
		ratios.CurrentRatio = bs.CurrentAssets.Total / bs.CurrentLiabilities.Total
	}
	if equity := bs.Capital.Total + bs.Reserves.Total; equity != 0 {
		ratios.DebtToEquity = bs.NoncurrentLiabilities.Total / equity
	}
	return ratios
}

func (s *BSSection) add(line BSLine) {
	s.Lines = append(s.Lines, line)
	s.Total += line.Amount
}

func (s *BSSection) sortLines() {
	sort.SliceStable(s.Lines, func(i, j int) bool {
		if s.Lines[i].Synthetic != s.Lines[j].Synthetic {
			return !s.Lines[i].Synthetic
		}
		return s.Lines[i].LedgerCode < s.Lines[j].LedgerCode
	})
}
