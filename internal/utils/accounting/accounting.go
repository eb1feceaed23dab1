package accounting

import (
	"fmt"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the normal-balance sign convention to an entry
// amount. This is used in both services and repositories to keep the
// accounting arithmetic in one place.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(amount decimal.Decimal, direction domain.EntryDirection, accountType domain.AccountType) (decimal.Decimal, error) {
	signed := amount
	isDebit := direction == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signed = signed.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signed = signed.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
	return signed, nil
}

// BalanceFromTotals folds raw debit/credit totals into a signed balance
// using the account type's normal-balance convention: asset and expense
// accounts carry debit - credit, the rest carry credit - debit.
func BalanceFromTotals(accountType domain.AccountType, debitTotal, creditTotal decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debitTotal.Sub(creditTotal), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return creditTotal.Sub(debitTotal), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}

// DebitCreditSums totals each side of a set of entries.
func DebitCreditSums(entries []domain.LedgerEntry) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Direction == domain.Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits
}
