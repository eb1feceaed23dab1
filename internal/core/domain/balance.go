package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a derived view of an account at a point in time. It is never
// stored: it is folded from the entry log on every read.
type Balance struct {
	AccountID    string          `json:"accountID"`
	TenantID     string          `json:"tenantID"`
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`          // Signed per the account's normal-balance convention
	DebitTotal   decimal.Decimal `json:"debitTotal"`      // Sum of debit amounts in range
	CreditTotal  decimal.Decimal `json:"creditTotal"`     // Sum of credit amounts in range
	AsOf         *time.Time      `json:"asOf,omitempty"`  // Effective-date upper bound; nil means unbounded
}

// EntryTotals holds the raw debit and credit sums for one account over some
// entry range, before the normal-balance convention is applied.
type EntryTotals struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}
