package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks-io/ledger_engine/internal/apperrors"
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_engine/internal/core/ports/services"
	"github.com/finbooks-io/ledger_engine/internal/dto"
	"github.com/finbooks-io/ledger_engine/internal/utils/accounting"
)

// balanceService derives balances by folding the entry log. It holds no
// state of its own and never writes.
type balanceService struct {
	BaseService
	balanceRepo portsrepo.BalanceReader
	accountRepo portsrepo.AccountReader
}

// NewBalanceService creates a new balance service.
func NewBalanceService(balanceRepo portsrepo.BalanceReader, accountRepo portsrepo.AccountReader) portssvc.BalanceSvcFacade {
	return &balanceService{
		balanceRepo: balanceRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// GetBalance folds the account's entries with effective_date <= asOf into a
// signed balance. A nil asOf means no bound; an account with no entries has
// balance zero.
func (s *balanceService) GetBalance(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (*domain.Balance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for balance", "account_id", accountID)
		}
		return nil, err
	}
	if account.TenantID != tenantID {
		// Obscure existence of other tenants' accounts.
		return nil, apperrors.ErrNotFound
	}

	totals, err := s.balanceRepo.AccountEntryTotals(ctx, tenantID, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate entry totals", "account_id", accountID)
		return nil, fmt.Errorf("failed to compute balance: %w", err)
	}

	amount, err := accounting.BalanceFromTotals(account.AccountType, totals.DebitTotal, totals.CreditTotal)
	if err != nil {
		s.LogError(ctx, err, "Failed to fold balance", "account_id", accountID)
		return nil, fmt.Errorf("failed to compute balance: %w", apperrors.ErrInternal)
	}

	return &domain.Balance{
		AccountID:    accountID,
		TenantID:     tenantID,
		CurrencyCode: account.CurrencyCode,
		Amount:       amount,
		DebitTotal:   totals.DebitTotal,
		CreditTotal:  totals.CreditTotal,
		AsOf:         asOf,
	}, nil
}

// GetBalances computes balances for up to 100 accounts at once. The
// response carries one item per requested id in request order, duplicates
// included. Failures are per item: ids that are unknown or owned by another
// tenant come back flagged NOT_FOUND while the rest of the batch still
// succeeds.
func (s *balanceService) GetBalances(ctx context.Context, tenantID string, req dto.BatchBalanceRequest) (*dto.BatchBalanceResponse, error) {
	uniqueIDs := uniqueStrings(req.AccountIDs)

	found, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts for balance batch")
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	// Foreign-tenant accounts are indistinguishable from missing ones.
	accounts := make(map[string]domain.Account, len(found))
	resolvedIDs := make([]string, 0, len(found))
	for _, id := range uniqueIDs {
		if acc, ok := found[id]; ok && acc.TenantID == tenantID {
			accounts[id] = acc
			resolvedIDs = append(resolvedIDs, id)
		}
	}

	totalsMap := make(map[string]domain.EntryTotals, len(resolvedIDs))
	if len(resolvedIDs) > 0 {
		totalsMap, err = s.balanceRepo.AccountEntryTotalsBatch(ctx, tenantID, resolvedIDs, req.AsOf)
		if err != nil {
			s.LogError(ctx, err, "Failed to aggregate entry totals batch")
			return nil, fmt.Errorf("failed to compute balances: %w", err)
		}
	}

	results := make([]dto.BatchBalanceResult, len(req.AccountIDs))
	for i, id := range req.AccountIDs {
		account, ok := accounts[id]
		if !ok {
			results[i] = dto.BatchBalanceResult{AccountID: id, Status: dto.BalanceStatusNotFound}
			continue
		}

		amount, err := accounting.BalanceFromTotals(account.AccountType, totalsMap[id].DebitTotal, totalsMap[id].CreditTotal)
		if err != nil {
			s.LogError(ctx, err, "Failed to fold balance", "account_id", id)
			return nil, fmt.Errorf("failed to compute balances: %w", apperrors.ErrInternal)
		}
		results[i] = dto.BatchBalanceResult{
			AccountID:    id,
			Status:       dto.BalanceStatusOK,
			Balance:      &amount,
			CurrencyCode: account.CurrencyCode,
		}
	}

	return &dto.BatchBalanceResponse{
		Balances: results,
		AsOf:     req.AsOf,
	}, nil
}
