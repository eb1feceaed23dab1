package domain

// AccountType defines the fundamental accounting type of an account.
// It is fixed at creation and determines the account's normal-balance
// sign convention.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five supported account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// AccountStatus is the lifecycle state of an account. CLOSED is terminal:
// a closed account accepts no further entries and is never deleted.
type AccountStatus string

const (
	AccountOpen   AccountStatus = "OPEN"
	AccountClosed AccountStatus = "CLOSED"
)

// Account represents a financial account within the ledger.
type Account struct {
	AccountID     string        `json:"accountID"`     // Primary Key (UUID)
	TenantID      string        `json:"tenantID"`      // Owning tenant (Not Null)
	AccountCode   string        `json:"accountCode"`   // Human-readable code, unique per tenant
	Name          string        `json:"name"`          // User-defined name
	AccountType   AccountType   `json:"accountType"`   // ASSET, LIABILITY, etc. Immutable.
	CurrencyCode  string        `json:"currencyCode"`  // ISO-4217 style code. Immutable.
	AllowNegative bool          `json:"allowNegative"` // Policy flag: may the balance go below zero
	Status        AccountStatus `json:"status"`        // OPEN or CLOSED
	Description   string        `json:"description"`   // Nullable user description
	AuditFields
}

// IsOpen reports whether the account still accepts entries.
func (a *Account) IsOpen() bool {
	return a.Status == AccountOpen
}
