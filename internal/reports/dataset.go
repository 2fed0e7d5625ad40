package reports

import (
	"log/slog"

	"github.com/khata-erp/khata-erp/internal/ledger"
)

// Chart is one tenant's resolved chart of accounts: ledgers joined to their
// groups with trading roles resolved up front, so the report builders
// branch on enums instead of group-code strings.
type Chart struct {
	Groups  map[int64]ledger.AccountGroup
	Ledgers []ledger.Ledger
	Roles   map[int64]ledger.TradingRole
}

// NewChart resolves groups and roles for the given ledgers. Ledgers whose
// account group cannot be resolved are skipped and logged; one malformed
// ledger must not abort an entire statement.
func NewChart(groups []ledger.AccountGroup, ledgers []ledger.Ledger, logger *slog.Logger) Chart {
	ch := Chart{
		Groups: make(map[int64]ledger.AccountGroup, len(groups)),
		Roles:  make(map[int64]ledger.TradingRole, len(ledgers)),
	}
	for _, g := range groups {
		ch.Groups[g.ID] = g
	}
	for _, l := range ledgers {
		group, ok := ch.Groups[l.AccountGroupID]
		if !ok {
			if logger != nil {
				logger.Warn("skipping ledger with unknown account group",
					slog.Int64("ledger_id", l.ID),
					slog.Int64("account_group_id", l.AccountGroupID))
			}
			continue
		}
		ch.Ledgers = append(ch.Ledgers, l)
		ch.Roles[l.ID] = ledger.ResolveTradingRole(group, l)
	}
	return ch
}

// Group returns the account group for a ledger already admitted to the chart.
func (c Chart) Group(l ledger.Ledger) ledger.AccountGroup {
	return c.Groups[l.AccountGroupID]
}

// Movements is a per-ledger movement lookup; ledgers without postings in
// the window resolve to a zero movement.
type Movements map[int64]ledger.Movement

// At returns the movement for the ledger id, defaulting to zero.
func (m Movements) At(id int64) ledger.Movement {
	return m[id]
}
