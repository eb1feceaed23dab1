package mapping

import (
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/finbooks-io/ledger_engine/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal.
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:          d.JournalID,
		TenantID:           d.TenantID,
		EffectiveDate:      d.EffectiveDate,
		Description:        d.Description,
		CurrencyCode:       d.CurrencyCode,
		Status:             models.JournalStatus(d.Status),
		IdempotencyKey:     d.IdempotencyKey,
		OriginalJournalID:  d.OriginalJournalID,
		ReversingJournalID: d.ReversingJournalID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal.
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:          m.JournalID,
		TenantID:           m.TenantID,
		EffectiveDate:      m.EffectiveDate,
		Description:        m.Description,
		CurrencyCode:       m.CurrencyCode,
		Status:             domain.JournalStatus(m.Status),
		IdempotencyKey:     m.IdempotencyKey,
		OriginalJournalID:  m.OriginalJournalID,
		ReversingJournalID: m.ReversingJournalID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		JournalID:     d.JournalID,
		TenantID:      d.TenantID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		Direction:     models.EntryDirection(d.Direction),
		CurrencyCode:  d.CurrencyCode,
		EffectiveDate: d.EffectiveDate,
		PostedAt:      d.PostedAt,
		Notes:         d.Notes,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		JournalID:     m.JournalID,
		TenantID:      m.TenantID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		Direction:     domain.EntryDirection(m.Direction),
		CurrencyCode:  m.CurrencyCode,
		EffectiveDate: m.EffectiveDate,
		PostedAt:      m.PostedAt,
		Notes:         m.Notes,
	}
}
