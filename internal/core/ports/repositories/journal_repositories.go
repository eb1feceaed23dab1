package repositories

import (
	"context"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier,
	// regardless of tenant. Callers are responsible for tenant checks.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournalsByTenant retrieves a paginated list of journals for a given
	// tenant using token-based pagination. It returns the journals, a token
	// for the next page, and an error.
	ListJournalsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveJournal atomically persists a journal, its entries and (when the
	// journal carries an idempotency key) the idempotency record, enforcing
	// the negative-balance policy under row locks on the affected accounts.
	// balanceChanges holds each account's net signed effect, used for the
	// projected-balance check.
	//
	// Returns apperrors.ErrDuplicate when the idempotency key is already
	// reserved, apperrors.ErrPrecondition when the policy check fails and
	// apperrors.ErrUnavailable when the storage transaction aborted.
	SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error

	// SaveReversal persists a reversing journal with the same guarantees as
	// SaveJournal and, in the same transaction, flips the original journal
	// named by the reversing journal's OriginalJournalID from POSTED to
	// REVERSED. The conditional status flip is the arbiter between
	// concurrent reversals: when the original is no longer POSTED the whole
	// transaction rolls back with apperrors.ErrPrecondition and the
	// reversing journal is not persisted.
	SaveReversal(ctx context.Context, reversing domain.Journal, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error
}

// EntryReader defines read operations for ledger entry data.
type EntryReader interface {
	// FindEntriesByJournalID retrieves all entries of a single journal.
	FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerEntry, error)

	// FindEntriesByJournalIDs retrieves entries for multiple journals,
	// grouped by journal ID.
	FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.LedgerEntry, error)

	// ListEntriesByAccountID retrieves a paginated account statement using
	// token-based pagination.
	ListEntriesByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	EntryReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction
// capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
