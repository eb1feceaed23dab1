package services

import (
	"context"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/finbooks-io/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations for the account registry.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account owned by the tenant. An account
	// owned by another tenant is reported as not found to obscure existence.
	GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts for the posting path. An
	// unknown id yields apperrors.ErrNotFound; an id owned by another tenant
	// yields apperrors.ErrForbidden.
	GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of the tenant's accounts.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the account registry.
type AccountWriterSvc interface {
	// CreateAccount persists a new open account. Duplicate
	// (tenant, accountCode) pairs yield apperrors.ErrDuplicate.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// CloseAccount transitions an account to its terminal CLOSED state.
	// Closing twice yields apperrors.ErrPrecondition, not a silent no-op.
	CloseAccount(ctx context.Context, tenantID string, accountID string, userID string) error

	// SetAllowNegative flips the negative-balance policy flag.
	SetAllowNegative(ctx context.Context, tenantID string, accountID string, allow bool, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
