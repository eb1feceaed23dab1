package dto

import (
	"time"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryInput is one line of a posting request. The journal currency is
// inherited from the referenced accounts, which must all share one.
type EntryInput struct {
	AccountID string          `json:"accountID" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Direction string          `json:"direction" binding:"required,direction"`
	Notes     string          `json:"notes" binding:"max=1024"`
}

// PostTransactionRequest defines the payload for posting a balanced journal.
type PostTransactionRequest struct {
	Description    string       `json:"description" binding:"max=1024"`
	EffectiveDate  time.Time    `json:"effectiveDate" binding:"required"`
	IdempotencyKey *string      `json:"idempotencyKey,omitempty" binding:"omitempty,max=128"`
	Entries        []EntryInput `json:"entries" binding:"required,min=2,dive"`
}

// EntryResponse defines the data returned for a ledger entry.
type EntryResponse struct {
	EntryID       string          `json:"entryID"`
	JournalID     string          `json:"journalID"`
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     string          `json:"direction"`
	CurrencyCode  string          `json:"currencyCode"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	PostedAt      time.Time       `json:"postedAt"`
	Notes         string          `json:"notes,omitempty"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID          string          `json:"journalID"`
	EffectiveDate      time.Time       `json:"effectiveDate"`
	Description        string          `json:"description,omitempty"`
	CurrencyCode       string          `json:"currencyCode"`
	Status             string          `json:"status"`
	OriginalJournalID  *string         `json:"originalJournalID,omitempty"`
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"`
	PostedAt           time.Time       `json:"postedAt"`
	Entries            []EntryResponse `json:"entries,omitempty"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeEntries   bool    `form:"includeEntries"`
}

// ListJournalsResponse is the paginated journal listing.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListEntriesParams holds parameters for an account statement listing.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is the paginated account statement.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:       e.EntryID,
		JournalID:     e.JournalID,
		AccountID:     e.AccountID,
		Amount:        e.Amount,
		Direction:     string(e.Direction),
		CurrencyCode:  e.CurrencyCode,
		EffectiveDate: e.EffectiveDate,
		PostedAt:      e.PostedAt,
		Notes:         e.Notes,
	}
}

// ToEntryResponses converts a slice of domain entries.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	return JournalResponse{
		JournalID:          j.JournalID,
		EffectiveDate:      j.EffectiveDate,
		Description:        j.Description,
		CurrencyCode:       j.CurrencyCode,
		Status:             string(j.Status),
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		PostedAt:           j.CreatedAt,
		Entries:            ToEntryResponses(j.Entries),
	}
}
