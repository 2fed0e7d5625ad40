package ledger

import "testing"

func group(code string, nature Nature, opts ...func(*AccountGroup)) AccountGroup {
	g := AccountGroup{
		ID:        1,
		GroupCode: code,
		Name:      code,
		Nature:    nature,
		AffectsPL: nature == NatureIncome || nature == NatureExpense,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func namedLedger(code, name string, side BalanceSide) Ledger {
	return Ledger{ID: 1, LedgerCode: code, LedgerName: name, BalanceType: side}
}

func TestResolveTradingRole(t *testing.T) {
	cases := []struct {
		name  string
		group AccountGroup
		led   Ledger
		want  TradingRole
	}{
		{"sales", group("SAL", NatureIncome), namedLedger("L-SAL", "Sales Local", SideCredit), RoleSales},
		{"sales return", group("SRET", NatureIncome), namedLedger("L-SRET", "Sales Returns", SideDebit), RoleSalesReturn},
		{"purchase", group("PUR", NatureExpense), namedLedger("L-PUR", "Purchases", SideDebit), RolePurchase},
		{"purchase return", group("PRET", NatureExpense), namedLedger("L-PRET", "Purchase Returns", SideCredit), RolePurchaseReturn},
		{"direct expense", group("DEXP", NatureExpense, func(g *AccountGroup) { g.AffectsGrossProfit = true }), namedLedger("L-FRT", "Freight Inward", SideDebit), RoleDirectExpense},
		{"indirect expense", group("IEXP", NatureExpense), namedLedger("L-RENT", "Office Rent", SideDebit), RoleIndirectExpense},
		{"other income", group("OINC", NatureIncome), namedLedger("L-INT", "Interest Income", SideCredit), RoleOtherIncome},
		{"stock", group("INV", NatureAsset), namedLedger("L-STK", "Stock In Hand", SideDebit), RoleStock},
		{"rounding", group("IEXP", NatureExpense), namedLedger("L-RND", "Rounding Off", SideDebit), RoleRounding},
		{"balance sheet", group("BANK", NatureAsset), namedLedger("L-HDFC", "HDFC Current A/c", SideDebit), RoleNone},
	}
	for _, tc := range cases {
		if got := ResolveTradingRole(tc.group, tc.led); got != tc.want {
			t.Fatalf("%s: expected %s got %s", tc.name, tc.want, got)
		}
	}
}

func TestResolveTradingRoleTaxMarkers(t *testing.T) {
	plain := group("DUTY", NatureLiability)
	flagged := group("DUTY", NatureLiability, func(g *AccountGroup) { g.IsTaxGroup = true })

	cases := []struct {
		name  string
		group AccountGroup
		led   Ledger
		want  TradingRole
	}{
		{"input gst by name", plain, namedLedger("L-IGST", "Input CGST", SideDebit), RoleTaxInput},
		{"output gst by name", plain, namedLedger("L-OGST", "Output SGST", SideCredit), RoleTaxOutput},
		{"tds payable", plain, namedLedger("L-TDSP", "TDS Payable", SideCredit), RoleTdsPayable},
		{"tds receivable", plain, namedLedger("L-TDSR", "TDS Receivable", SideDebit), RoleTdsReceivable},
		{"flagged group falls back to side debit", flagged, namedLedger("L-CESS", "Cess Control", SideDebit), RoleTaxInput},
		{"flagged group falls back to side credit", flagged, namedLedger("L-CESS", "Cess Control", SideCredit), RoleTaxOutput},
	}
	for _, tc := range cases {
		if got := ResolveTradingRole(tc.group, tc.led); got != tc.want {
			t.Fatalf("%s: expected %s got %s", tc.name, tc.want, got)
		}
	}
}

// A balance-sheet ledger whose name merely contains "round" must stay out of
// the P&L buckets.
func TestRoundingCarveOutRequiresPLGroup(t *testing.T) {
	g := group("BANK", NatureAsset)
	l := namedLedger("L-RT", "Roundtree Deposits", SideDebit)
	if got := ResolveTradingRole(g, l); got != RoleNone {
		t.Fatalf("expected NONE got %s", got)
	}
}

func TestIsTaxRole(t *testing.T) {
	for _, role := range []TradingRole{RoleTaxInput, RoleTaxOutput, RoleTdsPayable, RoleTdsReceivable} {
		if !role.IsTaxRole() {
			t.Fatalf("expected %s to be a tax role", role)
		}
	}
	if RoleSales.IsTaxRole() {
		t.Fatalf("SALES must not be a tax role")
	}
}

func TestIsDebitNatured(t *testing.T) {
	if !(Ledger{BalanceType: SideDebit}).IsDebitNatured() {
		t.Fatalf("debit ledger should be debit natured")
	}
	if (Ledger{BalanceType: SideCredit}).IsDebitNatured() {
		t.Fatalf("credit ledger should not be debit natured")
	}
}
