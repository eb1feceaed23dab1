package repositories

import (
	"context"
	"time"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier,
	// regardless of tenant. Callers are responsible for tenant checks.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. IDs that do
	// not resolve are simply absent from the result map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given tenant.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// CloseAccount transitions an open account to CLOSED. Returns
	// apperrors.ErrPrecondition when the account is already closed and
	// apperrors.ErrNotFound when no such account exists for the tenant.
	CloseAccount(ctx context.Context, tenantID string, accountID string, userID string, now time.Time) error

	// SetAllowNegative flips the negative-balance policy flag.
	SetAllowNegative(ctx context.Context, tenantID string, accountID string, allow bool, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations used inside a posting transaction.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks their rows for
	// update within the given transaction, serializing concurrent postings
	// that touch the same accounts.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
