package services

import (
	"context"
	"time"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/finbooks-io/ledger_engine/internal/dto"
)

// BalanceSvcFacade derives account balances from the entry log. Pure read
// path; never mutates and never caches.
type BalanceSvcFacade interface {
	// GetBalance folds all of the account's entries with
	// effective_date <= asOf into a signed balance using the account type's
	// normal-balance convention. A nil asOf means no effective-date bound.
	// An account with no entries has balance zero.
	GetBalance(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (*domain.Balance, error)

	// GetBalances is the batched equivalent. Failures are per item: ids that
	// are unknown or owned by another tenant come back flagged NOT_FOUND
	// while the rest of the batch succeeds.
	GetBalances(ctx context.Context, tenantID string, req dto.BatchBalanceRequest) (*dto.BatchBalanceResponse, error)
}
