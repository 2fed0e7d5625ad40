package reports

// JSON view models for the report API. Amounts are rounded to two places
// here and nowhere earlier.

// TrialBalanceRowVM is one trial balance line.
type TrialBalanceRowVM struct {
	LedgerID   int64   `json:"ledger_id"`
	LedgerCode string  `json:"ledger_code"`
	LedgerName string  `json:"ledger_name"`
	GroupCode  string  `json:"group_code"`
	GroupName  string  `json:"group_name"`
	Nature     string  `json:"nature"`
	Debit      float64 `json:"debit"`
	Credit     float64 `json:"credit"`
}

// TrialBalanceGroupVM subtotals one account group.
type TrialBalanceGroupVM struct {
	GroupCode string  `json:"group_code"`
	GroupName string  `json:"group_name"`
	Debit     float64 `json:"debit"`
	Credit    float64 `json:"credit"`
}

// TrialBalanceTotalsVM carries the column totals and the imbalance
// diagnostic.
type TrialBalanceTotalsVM struct {
	TotalDebit  float64 `json:"total_debit"`
	TotalCredit float64 `json:"total_credit"`
	Difference  float64 `json:"difference"`
}

// TrialBalanceVM is the getTrialBalance response body.
type TrialBalanceVM struct {
	AsOnDate     string                `json:"as_on_date"`
	FromDate     string                `json:"from_date,omitempty"`
	TrialBalance []TrialBalanceRowVM   `json:"trial_balance"`
	Groups       []TrialBalanceGroupVM `json:"groups"`
	Totals       TrialBalanceTotalsVM  `json:"totals"`
}

// FromTrialBalance maps the domain report into its JSON shape.
func FromTrialBalance(tb TrialBalance) TrialBalanceVM {
	vm := TrialBalanceVM{
		AsOnDate:     tb.AsOn.Format("2006-01-02"),
		TrialBalance: []TrialBalanceRowVM{},
		Groups:       []TrialBalanceGroupVM{},
		Totals: TrialBalanceTotalsVM{
			TotalDebit:  Round2(tb.TotalDebit),
			TotalCredit: Round2(tb.TotalCredit),
			Difference:  Round2(tb.Difference),
		},
	}
	if tb.From != nil {
		vm.FromDate = tb.From.Format("2006-01-02")
	}
	for _, grp := range tb.Groups {
		vm.Groups = append(vm.Groups, TrialBalanceGroupVM{
			GroupCode: grp.GroupCode,
			GroupName: grp.GroupName,
			Debit:     Round2(grp.Debit),
			Credit:    Round2(grp.Credit),
		})
		for _, row := range grp.Rows {
			vm.TrialBalance = append(vm.TrialBalance, TrialBalanceRowVM{
				LedgerID:   row.LedgerID,
				LedgerCode: row.LedgerCode,
				LedgerName: row.LedgerName,
				GroupCode:  row.GroupCode,
				GroupName:  row.GroupName,
				Nature:     string(row.Nature),
				Debit:      Round2(row.Debit),
				Credit:     Round2(row.Credit),
			})
		}
	}
	return vm
}

// PLLineVM is one ledger line in a P&L bucket.
type PLLineVM struct {
	LedgerID   int64   `json:"ledger_id"`
	LedgerCode string  `json:"ledger_code"`
	LedgerName string  `json:"ledger_name"`
	Amount     float64 `json:"amount"`
}

// TradingAccountVM is the Trading Account section of the statement.
type TradingAccountVM struct {
	OpeningStock        float64    `json:"opening_stock"`
	Purchases           []PLLineVM `json:"purchases"`
	TotalPurchases      float64    `json:"total_purchases"`
	PurchaseReturns     []PLLineVM `json:"purchase_returns"`
	TotalPurchaseReturns float64   `json:"total_purchase_returns"`
	NetPurchases        float64    `json:"net_purchases"`
	DirectExpenses      []PLLineVM `json:"direct_expenses"`
	TotalDirectExpenses float64    `json:"total_direct_expenses"`
	DirectIncome        []PLLineVM `json:"direct_income"`
	TotalDirectIncome   float64    `json:"total_direct_income"`
	ClosingStock        float64    `json:"closing_stock"`
	CostMethod          string     `json:"cost_method"`
	CostNote            string     `json:"cost_note,omitempty"`
	COGS                float64    `json:"cogs"`
	GrossProfit         float64    `json:"gross_profit"`
}

// SalesRevenueVM is the revenue section of the statement.
type SalesRevenueVM struct {
	Sales             []PLLineVM `json:"sales"`
	TotalSales        float64    `json:"total_sales"`
	SalesReturns      []PLLineVM `json:"sales_returns"`
	TotalSalesReturns float64    `json:"total_sales_returns"`
	NetSales          float64    `json:"net_sales"`
}

// ProfitLossAccountVM is the indirect P&L section.
type ProfitLossAccountVM struct {
	IndirectIncome        []PLLineVM `json:"indirect_income"`
	TotalIndirectIncome   float64    `json:"total_indirect_income"`
	IndirectExpenses      []PLLineVM `json:"indirect_expenses"`
	TotalIndirectExpenses float64    `json:"total_indirect_expenses"`
}

// PLTotalsVM carries the headline figures.
type PLTotalsVM struct {
	GrossProfit       float64 `json:"gross_profit"`
	NetProfit         float64 `json:"net_profit"`
	GrossProfitMargin float64 `json:"gross_profit_margin"`
	NetProfitMargin   float64 `json:"net_profit_margin"`
}

// TallyLineVM is one labelled amount in the two-column rendering.
type TallyLineVM struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// TallyVM is the balanced two-column rendering.
type TallyVM struct {
	Debit       []TallyLineVM `json:"debit"`
	Credit      []TallyLineVM `json:"credit"`
	DebitTotal  float64       `json:"debit_total"`
	CreditTotal float64       `json:"credit_total"`
}

// ProfitLossVM is the getProfitLoss response body.
type ProfitLossVM struct {
	FromDate          string              `json:"from_date"`
	ToDate            string              `json:"to_date"`
	TradingAccount    TradingAccountVM    `json:"trading_account"`
	SalesRevenue      SalesRevenueVM      `json:"sales_revenue"`
	ProfitLossAccount ProfitLossAccountVM `json:"profit_loss_account"`
	Totals            PLTotalsVM          `json:"totals"`
	Tally             TallyVM             `json:"tally"`
}

// FromProfitLoss maps the domain statement into its JSON shape.
func FromProfitLoss(pl ProfitLoss) ProfitLossVM {
	t := pl.Totals
	vm := ProfitLossVM{
		FromDate: pl.From.Format("2006-01-02"),
		ToDate:   pl.To.Format("2006-01-02"),
		TradingAccount: TradingAccountVM{
			OpeningStock:        Round2(t.OpeningStock),
			Purchases:           plLines(pl.Purchases),
			TotalPurchases:      Round2(t.TotalPurchases),
			PurchaseReturns:     plLines(pl.PurchaseReturns),
			TotalPurchaseReturns: Round2(t.TotalPurchaseReturns),
			NetPurchases:        Round2(t.NetPurchases),
			DirectExpenses:      plLines(pl.DirectExpenses),
			TotalDirectExpenses: Round2(t.TotalDirectExpenses),
			DirectIncome:        plLines(pl.DirectIncome),
			TotalDirectIncome:   Round2(t.TotalDirectIncome),
			ClosingStock:        Round2(t.ClosingStock),
			CostMethod:          string(t.CostMethod),
			CostNote:            t.CostNote,
			COGS:                Round2(t.COGS),
			GrossProfit:         Round2(t.GrossProfit),
		},
		SalesRevenue: SalesRevenueVM{
			Sales:             plLines(pl.Sales),
			TotalSales:        Round2(t.TotalSales),
			SalesReturns:      plLines(pl.SalesReturns),
			TotalSalesReturns: Round2(t.TotalSalesReturns),
			NetSales:          Round2(t.NetSales),
		},
		ProfitLossAccount: ProfitLossAccountVM{
			IndirectIncome:        plLines(pl.IndirectIncome),
			TotalIndirectIncome:   Round2(t.TotalIndirectIncome),
			IndirectExpenses:      plLines(pl.IndirectExpenses),
			TotalIndirectExpenses: Round2(t.TotalIndirectExpenses),
		},
		Totals: PLTotalsVM{
			GrossProfit:       Round2(t.GrossProfit),
			NetProfit:         Round2(t.NetProfit),
			GrossProfitMargin: Round2(t.GrossProfitMargin),
			NetProfitMargin:   Round2(t.NetProfitMargin),
		},
	}

	tally := pl.TallyView()
	vm.Tally = TallyVM{
		Debit:       tallyLines(tally.Debit),
		Credit:      tallyLines(tally.Credit),
		DebitTotal:  Round2(tally.DebitTotal),
		CreditTotal: Round2(tally.CreditTotal),
	}
	return vm
}

// BSLineVM is one balance sheet row.
type BSLineVM struct {
	LedgerID   int64   `json:"ledger_id,omitempty"`
	LedgerCode string  `json:"ledger_code,omitempty"`
	LedgerName string  `json:"ledger_name"`
	Amount     float64 `json:"amount"`
	Synthetic  bool    `json:"synthetic,omitempty"`
}

// BSSectionVM is one labelled bucket with its total.
type BSSectionVM struct {
	Label string     `json:"label"`
	Lines []BSLineVM `json:"lines"`
	Total float64    `json:"total"`
}

// BalanceCheckVM is the accounting identity diagnostic.
type BalanceCheckVM struct {
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	Difference       float64 `json:"difference"`
	IsBalanced       bool    `json:"is_balanced"`
}

// FinancialRatiosVM carries the derived solvency figures.
type FinancialRatiosVM struct {
	CurrentRatio   float64 `json:"current_ratio"`
	DebtToEquity   float64 `json:"debt_to_equity"`
	WorkingCapital float64 `json:"working_capital"`
}

// BalanceSheetVM is the getBalanceSheet response body.
type BalanceSheetVM struct {
	AsOnDate string `json:"as_on_date"`
	Assets   struct {
		FixedAssets   BSSectionVM `json:"fixed_assets"`
		CurrentAssets BSSectionVM `json:"current_assets"`
		Investments   BSSectionVM `json:"investments"`
		OtherAssets   BSSectionVM `json:"other_assets"`
		Total         float64     `json:"total"`
	} `json:"assets"`
	LiabilitiesAndEquity struct {
		Capital               BSSectionVM `json:"capital"`
		Reserves              BSSectionVM `json:"reserves"`
		CurrentLiabilities    BSSectionVM `json:"current_liabilities"`
		NoncurrentLiabilities BSSectionVM `json:"noncurrent_liabilities"`
		OtherLiabilities      BSSectionVM `json:"other_liabilities"`
		NetProfitLoss         float64     `json:"net_profit_loss"`
		Total                 float64     `json:"total"`
	} `json:"liabilities_and_equity"`
	BalanceCheck    BalanceCheckVM    `json:"balance_check"`
	FinancialRatios FinancialRatiosVM `json:"financial_ratios"`
}

// FromBalanceSheet maps the domain report into its JSON shape.
func FromBalanceSheet(bs BalanceSheet) BalanceSheetVM {
	var vm BalanceSheetVM
	vm.AsOnDate = bs.AsOn.Format("2006-01-02")
	vm.Assets.FixedAssets = bsSection(bs.FixedAssets)
	vm.Assets.CurrentAssets = bsSection(bs.CurrentAssets)
	vm.Assets.Investments = bsSection(bs.Investments)
	vm.Assets.OtherAssets = bsSection(bs.OtherAssets)
	vm.Assets.Total = Round2(bs.TotalAssets)
	vm.LiabilitiesAndEquity.Capital = bsSection(bs.Capital)
	vm.LiabilitiesAndEquity.Reserves = bsSection(bs.Reserves)
	vm.LiabilitiesAndEquity.CurrentLiabilities = bsSection(bs.CurrentLiabilities)
	vm.LiabilitiesAndEquity.NoncurrentLiabilities = bsSection(bs.NoncurrentLiabilities)
	vm.LiabilitiesAndEquity.OtherLiabilities = bsSection(bs.OtherLiabilities)
	vm.LiabilitiesAndEquity.NetProfitLoss = Round2(bs.NetProfitLoss)
	vm.LiabilitiesAndEquity.Total = Round2(bs.TotalLiabilities)
	vm.BalanceCheck = BalanceCheckVM{
		TotalAssets:      Round2(bs.TotalAssets),
		TotalLiabilities: Round2(bs.TotalLiabilities),
		Difference:       Round2(bs.Difference),
		IsBalanced:       bs.IsBalanced,
	}
	vm.FinancialRatios = FinancialRatiosVM{
		CurrentRatio:   Round2(bs.Ratios.CurrentRatio),
		DebtToEquity:   Round2(bs.Ratios.DebtToEquity),
		WorkingCapital: Round2(bs.Ratios.WorkingCapital),
	}
	return vm
}

// StatementRowVM is one ledger statement line.
type StatementRowVM struct {
	Date          string  `json:"date"`
	VoucherNumber string  `json:"voucher_number,omitempty"`
	VoucherType   string  `json:"voucher_type,omitempty"`
	Narration     string  `json:"narration"`
	Debit         float64 `json:"debit"`
	Credit        float64 `json:"credit"`
	Balance       float64 `json:"balance"`
}

// LedgerStatementVM is the getLedgerStatement response body.
type LedgerStatementVM struct {
	Ledger struct {
		ID          int64  `json:"id"`
		LedgerCode  string `json:"ledger_code"`
		LedgerName  string `json:"ledger_name"`
		GroupName   string `json:"group_name"`
		BalanceType string `json:"balance_type"`
	} `json:"ledger"`
	FromDate       string           `json:"from_date"`
	ToDate         string           `json:"to_date"`
	Statement      []StatementRowVM `json:"statement"`
	ClosingBalance float64          `json:"closing_balance"`
	Summary        struct {
		OpeningBalance float64 `json:"opening_balance"`
		TotalDebit     float64 `json:"total_debit"`
		TotalCredit    float64 `json:"total_credit"`
		EntryCount     int     `json:"entry_count"`
	} `json:"summary"`
}

// FromLedgerStatement maps the domain statement into its JSON shape.
func FromLedgerStatement(st LedgerStatement) LedgerStatementVM {
	var vm LedgerStatementVM
	vm.Ledger.ID = st.Ledger.ID
	vm.Ledger.LedgerCode = st.Ledger.LedgerCode
	vm.Ledger.LedgerName = st.Ledger.LedgerName
	vm.Ledger.GroupName = st.GroupName
	vm.Ledger.BalanceType = string(st.Ledger.BalanceType)
	vm.FromDate = st.From.Format("2006-01-02")
	vm.ToDate = st.To.Format("2006-01-02")
	vm.Statement = make([]StatementRowVM, 0, len(st.Rows))
	for _, row := range st.Rows {
		vm.Statement = append(vm.Statement, StatementRowVM{
			Date:          row.Date.Format("2006-01-02"),
			VoucherNumber: row.VoucherNumber,
			VoucherType:   row.VoucherType,
			Narration:     row.Narration,
			Debit:         Round2(row.Debit),
			Credit:        Round2(row.Credit),
			Balance:       Round2(row.Balance),
		})
	}
	vm.ClosingBalance = Round2(st.ClosingBalance)
	vm.Summary.OpeningBalance = Round2(st.OpeningBalance)
	vm.Summary.TotalDebit = Round2(st.Summary.TotalDebit)
	vm.Summary.TotalCredit = Round2(st.Summary.TotalCredit)
	vm.Summary.EntryCount = st.Summary.EntryCount
	return vm
}

func plLines(lines []PLLine) []PLLineVM {
	out := make([]PLLineVM, 0, len(lines))
	for _, line := range lines {
		out = append(out, PLLineVM{
			LedgerID:   line.LedgerID,
			LedgerCode: line.LedgerCode,
			LedgerName: line.LedgerName,
			Amount:     Round2(line.Amount),
		})
	}
	return out
}

func tallyLines(lines []TallyLine) []TallyLineVM {
	out := make([]TallyLineVM, 0, len(lines))
	for _, line := range lines {
		out = append(out, TallyLineVM{Label: line.Label, Amount: Round2(line.Amount)})
	}
	return out
}

func bsSection(section BSSection) BSSectionVM {
	vm := BSSectionVM{Label: section.Label, Lines: make([]BSLineVM, 0, len(section.Lines)), Total: Round2(section.Total)}
	for _, line := range section.Lines {
		vm.Lines = append(vm.Lines, BSLineVM{
			LedgerID:   line.LedgerID,
			LedgerCode: line.LedgerCode,
			LedgerName: line.LedgerName,
			Amount:     Round2(line.Amount),
			Synthetic:  line.Synthetic,
		})
	}
	return vm
}
