package dto

import (
	"time"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Per-item status values for batch balance lookups.
const (
	BalanceStatusOK       = "OK"
	BalanceStatusNotFound = "NOT_FOUND"
)

// BalanceResponse defines the data returned for a single balance lookup.
type BalanceResponse struct {
	AccountID    string          `json:"accountID"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
	AsOf         *time.Time      `json:"asOf,omitempty"`
}

// BatchBalanceRequest asks for balances of several accounts at once.
type BatchBalanceRequest struct {
	AccountIDs []string   `json:"accountIDs" binding:"required,min=1,max=100,dive,uuid"`
	AsOf       *time.Time `json:"asOf,omitempty"`
}

// BatchBalanceResult is one item of a batch lookup. Lookups fail per item:
// an unknown or foreign account id is reported as NOT_FOUND while the rest
// of the batch still succeeds.
type BatchBalanceResult struct {
	AccountID    string           `json:"accountID"`
	Status       string           `json:"status"`
	Balance      *decimal.Decimal `json:"balance,omitempty"`
	CurrencyCode string           `json:"currencyCode,omitempty"`
}

// BatchBalanceResponse is the batched balance listing.
type BatchBalanceResponse struct {
	Balances []BatchBalanceResult `json:"balances"`
	AsOf     *time.Time           `json:"asOf,omitempty"`
}

// ToBalanceResponse converts a domain.Balance to BalanceResponse.
func ToBalanceResponse(b *domain.Balance) BalanceResponse {
	return BalanceResponse{
		AccountID:    b.AccountID,
		Balance:      b.Amount,
		CurrencyCode: b.CurrencyCode,
		AsOf:         b.AsOf,
	}
}
