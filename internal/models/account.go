package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountStatus mirrors the account lifecycle column.
type AccountStatus string

const (
	AccountOpen   AccountStatus = "OPEN"
	AccountClosed AccountStatus = "CLOSED"
)

// Account is the persisted representation of a ledger account.
type Account struct {
	AccountID     string        `db:"account_id"`
	TenantID      string        `db:"tenant_id"`
	AccountCode   string        `db:"account_code"` // Unique per tenant
	Name          string        `db:"name"`
	AccountType   AccountType   `db:"account_type"`
	CurrencyCode  string        `db:"currency_code"`
	AllowNegative bool          `db:"allow_negative"`
	Status        AccountStatus `db:"status"`
	Description   string        `db:"description"`
	AuditFields
}
