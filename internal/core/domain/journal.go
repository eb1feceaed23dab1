package domain

import "time"

// JournalStatus indicates the state of a journal.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal represents one balanced, atomic financial event composed of
// ledger entries sharing its journal ID. A journal is created whole and
// never mutated; reversal produces a new journal and flips the original's
// status, leaving every entry untouched.
type Journal struct {
	JournalID          string        `json:"journalID"`     // Primary Key (UUID)
	TenantID           string        `json:"tenantID"`      // Owning tenant (Not Null)
	EffectiveDate      time.Time     `json:"effectiveDate"` // Accounting date of the event
	Description        string        `json:"description"`   // Nullable user description
	CurrencyCode       string        `json:"currencyCode"`  // Single currency shared by all entries
	Status             JournalStatus `json:"status"`        // Default: POSTED
	IdempotencyKey     *string       `json:"idempotencyKey,omitempty"`
	OriginalJournalID  *string       `json:"originalJournalID,omitempty"`  // Set on a reversing journal
	ReversingJournalID *string       `json:"reversingJournalID,omitempty"` // Set on a reversed journal
	Entries            []LedgerEntry `json:"entries,omitempty"`            // Often loaded separately
	AuditFields
}

// IdempotencyRecord associates a tenant-scoped idempotency key with the
// journal it produced. The record is written in the same storage
// transaction as the journal, so an aborted posting never leaves a stuck
// reservation.
type IdempotencyRecord struct {
	TenantID       string    `json:"tenantID"`
	IdempotencyKey string    `json:"idempotencyKey"`
	JournalID      string    `json:"journalID"`
	CreatedAt      time.Time `json:"createdAt"`
}
