package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection indicates whether an entry row is a Debit or a Credit.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// LedgerEntry is the persisted, append-only line item of a journal.
// Rows in ledger_entries are never updated or deleted.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	JournalID     string          `db:"journal_id"`
	TenantID      string          `db:"tenant_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"` // Positive; sign carried by direction
	Direction     EntryDirection  `db:"direction"`
	CurrencyCode  string          `db:"currency_code"`
	EffectiveDate time.Time       `db:"effective_date"`
	PostedAt      time.Time       `db:"posted_at"`
	Notes         string          `db:"notes"`
}
