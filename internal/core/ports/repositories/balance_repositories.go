package repositories

import (
	"context"
	"time"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BalanceReader defines pure-read aggregation over the entry log. Balances
// are always derived by folding entries; there is no stored balance column.
type BalanceReader interface {
	// AccountEntryTotals sums the debit and credit sides for one account,
	// bounded by effective date when asOf is non-nil.
	AccountEntryTotals(ctx context.Context, tenantID, accountID string, asOf *time.Time) (domain.EntryTotals, error)

	// AccountEntryTotalsBatch is the batched equivalent. Accounts with no
	// matching entries are present in the map with zero totals.
	AccountEntryTotalsBatch(ctx context.Context, tenantID string, accountIDs []string, asOf *time.Time) (map[string]domain.EntryTotals, error)

	// AccountEntryTotalsInTx sums debit and credit sides for the given
	// accounts inside an open transaction, so the projected-balance check
	// observes every journal committed before the account rows were locked.
	AccountEntryTotalsInTx(ctx context.Context, tx pgx.Tx, tenantID string, accountIDs []string) (map[string]domain.EntryTotals, error)
}
