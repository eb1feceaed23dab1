package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection indicates whether a ledger entry is a Debit or a Credit.
// Sign is carried by the direction, never by the amount.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// IsValid reports whether d is DEBIT or CREDIT.
func (d EntryDirection) IsValid() bool {
	return d == Debit || d == Credit
}

// Opposite returns the reversing direction.
func (d EntryDirection) Opposite() EntryDirection {
	if d == Debit {
		return Credit
	}
	return Debit
}

// LedgerEntry is a single immutable line within a Journal, affecting one
// account. Entries are append-only: once committed they are never updated
// or deleted.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	JournalID     string          `json:"journalID"`     // FK -> Journal.journalID (Not Null)
	TenantID      string          `json:"tenantID"`      // Owning tenant, matches the journal's
	AccountID     string          `json:"accountID"`     // FK -> Account.accountID (Not Null)
	Amount        decimal.Decimal `json:"amount"`        // Strictly positive
	Direction     EntryDirection  `json:"direction"`     // DEBIT or CREDIT (Not Null)
	CurrencyCode  string          `json:"currencyCode"`  // Matches the journal currency (Not Null)
	EffectiveDate time.Time       `json:"effectiveDate"` // Accounting date the entry applies to
	PostedAt      time.Time       `json:"postedAt"`      // Server-assigned commit time (UTC), set once
	Notes         string          `json:"notes"`         // Nullable
}
