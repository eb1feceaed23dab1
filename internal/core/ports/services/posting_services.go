package services

import (
	"context"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/finbooks-io/ledger_engine/internal/dto"
)

// PostingWriterSvc defines the write operations of the transaction poster.
type PostingWriterSvc interface {
	// PostTransaction validates and atomically commits a balanced journal.
	// A request carrying an already-completed idempotency key returns the
	// previously produced journal without re-validating or re-applying.
	PostTransaction(ctx context.Context, tenantID string, req dto.PostTransactionRequest, userID string) (*domain.Journal, error)

	// ReverseJournal creates a new journal reversing a previously posted
	// one, leaving the original's entries untouched.
	ReverseJournal(ctx context.Context, tenantID string, journalID string, userID string) (*domain.Journal, error)
}

// PostingReaderSvc defines the read operations over journals and entries.
type PostingReaderSvc interface {
	// GetJournalByID retrieves a journal with its entries.
	GetJournalByID(ctx context.Context, tenantID string, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of the tenant's journals.
	ListJournals(ctx context.Context, tenantID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)

	// ListEntriesByAccount retrieves a paginated account statement.
	ListEntriesByAccount(ctx context.Context, tenantID string, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// PostingSvcFacade combines the posting service interfaces.
type PostingSvcFacade interface {
	PostingWriterSvc
	PostingReaderSvc
}
