package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks-io/ledger_engine/internal/apperrors"
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_engine/internal/core/ports/services"
	"github.com/finbooks-io/ledger_engine/internal/dto"
)

// accountService implements the account registry operations.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates and persists a new account for the tenant.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	accountType := domain.AccountType(strings.ToUpper(req.AccountType))
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		TenantID:      tenantID,
		AccountCode:   req.AccountCode,
		Name:          req.Name,
		AccountType:   accountType,
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		AllowNegative: req.AllowNegative,
		Status:        domain.AccountOpen,
		Description:   req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %q already exists", apperrors.ErrDuplicate, req.AccountCode)
		}
		s.LogError(ctx, err, "Failed to save account", "account_code", req.AccountCode)
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully", "account_id", account.AccountID, "account_code", account.AccountCode)
	return &account, nil
}

// GetAccountByID retrieves one of the tenant's accounts. A hit on another
// tenant's account is reported as not found to obscure existence.
func (s *accountService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", "account_id", accountID)
		}
		return nil, err
	}

	if account.TenantID != tenantID {
		s.LogDebug(ctx, "Account belongs to a different tenant", "account_id", accountID)
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs retrieves accounts for the posting path. Unlike the
// public read path it distinguishes a missing account from one owned by a
// different tenant, so cross-tenant references in a posting surface as a
// forbidden error rather than vanishing quietly.
func (s *accountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs")
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, id := range accountIDs {
		acc, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if acc.TenantID != tenantID {
			s.LogDebug(ctx, "Posting references foreign account", "account_id", id)
			return nil, fmt.Errorf("%w: account %s belongs to a different tenant", apperrors.ErrForbidden, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of the tenant's accounts.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CloseAccount transitions an open account to CLOSED. The repository's
// conditional update settles the race with a concurrent close.
func (s *accountService) CloseAccount(ctx context.Context, tenantID string, accountID string, userID string) error {
	now := time.Now().UTC()
	if err := s.accountRepo.CloseAccount(ctx, tenantID, accountID, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrPrecondition) {
			s.LogError(ctx, err, "Failed to close account", "account_id", accountID)
		}
		return err
	}

	s.LogInfo(ctx, "Account closed", "account_id", accountID)
	return nil
}

// SetAllowNegative flips the negative-balance policy flag and returns the
// updated account. Enabling the flag never retroactively validates
// balances; it only changes what future postings may do.
func (s *accountService) SetAllowNegative(ctx context.Context, tenantID string, accountID string, allow bool, userID string) (*domain.Account, error) {
	now := time.Now().UTC()
	if err := s.accountRepo.SetAllowNegative(ctx, tenantID, accountID, allow, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update account policy", "account_id", accountID)
		}
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account policy updated", "account_id", accountID, "allow_negative", allow)
	return account, nil
}
