package ledger

import "strings"

// TradingRole tags a ledger with the statement bucket it feeds. Roles are
// resolved once when the chart of accounts is loaded so report logic
// branches on the enum rather than on group-code strings.
type TradingRole string

const (
	RoleSales           TradingRole = "SALES"
	RoleSalesReturn     TradingRole = "SALES_RETURN"
	RolePurchase        TradingRole = "PURCHASE"
	RolePurchaseReturn  TradingRole = "PURCHASE_RETURN"
	RoleDirectExpense   TradingRole = "DIRECT_EXPENSE"
	RoleIndirectExpense TradingRole = "INDIRECT_EXPENSE"
	RoleOtherIncome     TradingRole = "OTHER_INCOME"
	RoleStock           TradingRole = "STOCK"
	RoleTaxInput        TradingRole = "TAX_INPUT"
	RoleTaxOutput       TradingRole = "TAX_OUTPUT"
	RoleTdsPayable      TradingRole = "TDS_PAYABLE"
	RoleTdsReceivable   TradingRole = "TDS_RECEIVABLE"
	RoleRounding        TradingRole = "ROUNDING"
	RoleNone            TradingRole = "NONE"
)

// Group codes carried over from the chart-of-accounts seed. These are the
// only places the mnemonic strings are interpreted.
const (
	groupCodeSales          = "SAL"
	groupCodeSalesReturn    = "SRET"
	groupCodePurchase       = "PUR"
	groupCodePurchaseReturn = "PRET"
	groupCodeStock          = "INV"
	groupCodeCapital        = "CAP"
)

// ResolveTradingRole derives the report bucket for a ledger from its group
// metadata and, for the tax and rounding carve-outs, from ledger markers.
func ResolveTradingRole(group AccountGroup, l Ledger) TradingRole {
	if role, ok := resolveTaxRole(group, l); ok {
		return role
	}
	if group.GroupCode == groupCodeStock {
		return RoleStock
	}
	if !group.AffectsPL {
		return RoleNone
	}
	// Rounding ledgers swing between expense and income depending on the
	// period's net movement; the P&L builder decides the side.
	if strings.Contains(strings.ToLower(l.LedgerName), "round") {
		return RoleRounding
	}
	switch group.Nature {
	case NatureIncome:
		switch group.GroupCode {
		case groupCodeSales:
			return RoleSales
		case groupCodeSalesReturn:
			return RoleSalesReturn
		}
		return RoleOtherIncome
	case NatureExpense:
		switch group.GroupCode {
		case groupCodePurchase:
			return RolePurchase
		case groupCodePurchaseReturn:
			return RolePurchaseReturn
		}
		if group.AffectsGrossProfit {
			return RoleDirectExpense
		}
		return RoleIndirectExpense
	}
	return RoleNone
}

// resolveTaxRole classifies GST and TDS ledgers that must be netted instead
// of listed. A group flagged is_tax_group always nets; ledgers whose code or
// name carry GST/TDS markers net as well, matching legacy charts that never
// set the flag.
func resolveTaxRole(group AccountGroup, l Ledger) (TradingRole, bool) {
	marker := strings.ToUpper(l.LedgerCode + " " + l.LedgerName)
	isTax := group.IsTaxGroup || strings.Contains(marker, "GST") || strings.Contains(marker, "TDS")
	if !isTax {
		return RoleNone, false
	}
	switch {
	case strings.Contains(marker, "TDS") && strings.Contains(marker, "RECEIVABLE"):
		return RoleTdsReceivable, true
	case strings.Contains(marker, "TDS"):
		return RoleTdsPayable, true
	case strings.Contains(marker, "INPUT"):
		return RoleTaxInput, true
	case strings.Contains(marker, "OUTPUT"):
		return RoleTaxOutput, true
	}
	// GST ledger without an INPUT/OUTPUT marker: fall back to the ledger's
	// natural side.
	if l.IsDebitNatured() {
		return RoleTaxInput, true
	}
	return RoleTaxOutput, true
}

// IsTaxRole reports whether the role participates in tax netting.
func (r TradingRole) IsTaxRole() bool {
	switch r {
	case RoleTaxInput, RoleTaxOutput, RoleTdsPayable, RoleTdsReceivable:
		return true
	}
	return false
}

// IsCapitalGroup reports whether the group holds proprietor capital.
func IsCapitalGroup(group AccountGroup) bool {
	return group.GroupCode == groupCodeCapital
}
