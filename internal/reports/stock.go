package reports

import "github.com/khata-erp/khata-erp/internal/ledger"

// StockValuation carries the aggregate inventory figures consumed by the
// Trading Account and the Balance Sheet.
type StockValuation struct {
	OpeningStock float64
	ClosingStock float64
}

// ValueStock computes opening stock from item opening balances and closing
// stock as quantity on hand times moving average cost.
func ValueStock(items []ledger.InventoryItem) StockValuation {
	var v StockValuation
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		v.OpeningStock += item.OpeningBalance
		v.ClosingStock += item.QuantityOnHand * item.AvgCost
	}
	return v
}
