package dto

import (
	"time"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a ledger account.
type CreateAccountRequest struct {
	AccountCode   string `json:"accountCode" binding:"required,max=64"`
	Name          string `json:"name" binding:"required,max=255"`
	AccountType   string `json:"accountType" binding:"required,accounttype"`
	CurrencyCode  string `json:"currencyCode" binding:"required,len=3,alpha"`
	AllowNegative bool   `json:"allowNegative"`
	Description   string `json:"description" binding:"max=1024"`
}

// UpdateAccountPolicyRequest flips the negative-balance policy flag. An
// administrative operation; the posting path only ever reads the flag.
type UpdateAccountPolicyRequest struct {
	AllowNegative *bool `json:"allowNegative" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	AccountCode   string    `json:"accountCode"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	CurrencyCode  string    `json:"currencyCode"`
	AllowNegative bool      `json:"allowNegative"`
	Status        string    `json:"status"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		AccountCode:   a.AccountCode,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		CurrencyCode:  a.CurrencyCode,
		AllowNegative: a.AllowNegative,
		Status:        string(a.Status),
		Description:   a.Description,
		CreatedAt:     a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
