package pgsql

import (
	"context"
	"time"

	"github.com/finbooks-io/ledger_engine/internal/apperrors"
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBalanceRepository struct {
	BaseRepository
}

// newPgxBalanceRepository creates a repository that folds the entry log
// into debit/credit totals. Balances are never stored, only derived.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceReader {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceReader = (*PgxBalanceRepository)(nil)

// totalsQuery aggregates both sides in one scan over the
// (tenant_id, account_id, effective_date) index. COALESCE covers accounts
// with no matching entries.
const totalsQuery = `
	SELECT
		account_id,
		COALESCE(SUM(amount) FILTER (WHERE direction = 'DEBIT'), 0) AS debit_total,
		COALESCE(SUM(amount) FILTER (WHERE direction = 'CREDIT'), 0) AS credit_total
	FROM ledger_entries
	WHERE tenant_id = $1 AND account_id = ANY($2)
		AND ($3::timestamptz IS NULL OR effective_date <= $3)
	GROUP BY account_id;
`

func collectTotals(rows pgx.Rows, accountIDs []string) (map[string]domain.EntryTotals, error) {
	defer rows.Close()

	totals := make(map[string]domain.EntryTotals, len(accountIDs))
	for rows.Next() {
		var accountID string
		var debits, credits decimal.Decimal
		if err := rows.Scan(&accountID, &debits, &credits); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry totals row", err)
		}
		totals[accountID] = domain.EntryTotals{DebitTotal: debits, CreditTotal: credits}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading entry totals rows", err)
	}

	// Accounts without entries still get explicit zero totals.
	for _, id := range accountIDs {
		if _, ok := totals[id]; !ok {
			totals[id] = domain.EntryTotals{DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
		}
	}
	return totals, nil
}

// AccountEntryTotals sums one account's debit and credit sides, bounded by
// effective date when asOf is non-nil.
func (r *PgxBalanceRepository) AccountEntryTotals(ctx context.Context, tenantID, accountID string, asOf *time.Time) (domain.EntryTotals, error) {
	totals, err := r.AccountEntryTotalsBatch(ctx, tenantID, []string{accountID}, asOf)
	if err != nil {
		return domain.EntryTotals{}, err
	}
	return totals[accountID], nil
}

// AccountEntryTotalsBatch sums debit and credit sides for several accounts
// in one scan.
func (r *PgxBalanceRepository) AccountEntryTotalsBatch(ctx context.Context, tenantID string, accountIDs []string, asOf *time.Time) (map[string]domain.EntryTotals, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.EntryTotals{}, nil
	}

	rows, err := r.Pool.Query(ctx, totalsQuery, tenantID, accountIDs, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entry totals", err)
	}
	return collectTotals(rows, accountIDs)
}

// AccountEntryTotalsInTx runs the same aggregation inside an open
// transaction so the posting path's projected-balance check sees every
// journal committed before the account rows were locked.
func (r *PgxBalanceRepository) AccountEntryTotalsInTx(ctx context.Context, tx pgx.Tx, tenantID string, accountIDs []string) (map[string]domain.EntryTotals, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.EntryTotals{}, nil
	}

	rows, err := tx.Query(ctx, totalsQuery, tenantID, accountIDs, nil)
	if err != nil {
		if isSerializationFailure(err) {
			return nil, apperrors.ErrUnavailable
		}
		return nil, apperrors.NewAppError(500, "failed to query entry totals in tx", err)
	}
	return collectTotals(rows, accountIDs)
}
