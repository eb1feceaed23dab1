package mapping

import (
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/finbooks-io/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		TenantID:      d.TenantID,
		AccountCode:   d.AccountCode,
		Name:          d.Name,
		AccountType:   models.AccountType(d.AccountType),
		CurrencyCode:  d.CurrencyCode,
		AllowNegative: d.AllowNegative,
		Status:        models.AccountStatus(d.Status),
		Description:   d.Description,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		TenantID:      m.TenantID,
		AccountCode:   m.AccountCode,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		CurrencyCode:  m.CurrencyCode,
		AllowNegative: m.AllowNegative,
		Status:        domain.AccountStatus(m.Status),
		Description:   m.Description,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
