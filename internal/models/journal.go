package models

import "time"

// JournalStatus indicates the state of a journal.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal is the persisted header row of a balanced financial event.
type Journal struct {
	JournalID          string        `db:"journal_id"`
	TenantID           string        `db:"tenant_id"`
	EffectiveDate      time.Time     `db:"effective_date"`
	Description        string        `db:"description"`
	CurrencyCode       string        `db:"currency_code"`
	Status             JournalStatus `db:"status"`
	IdempotencyKey     *string       `db:"idempotency_key"`     // Nullable
	OriginalJournalID  *string       `db:"original_journal_id"`  // Nullable
	ReversingJournalID *string       `db:"reversing_journal_id"` // Nullable
	AuditFields
}

// IdempotencyKey is the persisted reservation row mapping a tenant-scoped
// key to the journal it produced. Inserted in the same transaction as the
// journal; the composite unique index is the source of truth.
type IdempotencyKey struct {
	TenantID       string    `db:"tenant_id"`
	IdempotencyKey string    `db:"idempotency_key"`
	JournalID      string    `db:"journal_id"`
	CreatedAt      time.Time `db:"created_at"`
}
