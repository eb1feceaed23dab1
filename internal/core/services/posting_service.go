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
	"github.com/finbooks-io/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	ErrJournalUnbalanced  = errors.New("journal entries do not balance")
	ErrJournalMinEntries  = errors.New("journal must have at least two entries")
	ErrJournalMinAccounts = errors.New("journal must affect at least two different accounts")
	ErrCurrencyMismatch   = errors.New("accounts do not share a single currency")
)

// postingService implements the transaction poster: validation of balanced
// journals, atomic commit, idempotent retries and reversal.
type postingService struct {
	BaseService
	accountSvc      portssvc.AccountSvcFacade
	journalRepo     portsrepo.JournalRepositoryWithTx
	idempotencyRepo portsrepo.IdempotencyRepositoryFacade

	// rejectFutureDates rejects postings whose effective date lies ahead of
	// server time. Off by default; back-dated entries are always allowed.
	rejectFutureDates bool
}

// NewPostingService creates a new posting service.
func NewPostingService(journalRepo portsrepo.JournalRepositoryWithTx, idempotencyRepo portsrepo.IdempotencyRepositoryFacade, accountSvc portssvc.AccountSvcFacade, rejectFutureDates bool) portssvc.PostingSvcFacade {
	return &postingService{
		accountSvc:        accountSvc,
		journalRepo:       journalRepo,
		idempotencyRepo:   idempotencyRepo,
		rejectFutureDates: rejectFutureDates,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// validateEntryShape checks the request-level shape rules: at least two
// entries across at least two accounts, positive amounts, valid directions.
// The debits-equal-credits check runs after the referenced accounts have
// resolved, so an unknown or closed account is reported ahead of an
// unbalanced sum.
func (s *postingService) validateEntryShape(entries []dto.EntryInput) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w", ErrJournalMinEntries)
	}

	accountSet := make(map[string]struct{}, len(entries))
	for _, in := range entries {
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: entry amount must be positive for account %s", apperrors.ErrValidation, in.AccountID)
		}
		if !domain.EntryDirection(strings.ToUpper(in.Direction)).IsValid() {
			return fmt.Errorf("%w: invalid entry direction %q", apperrors.ErrValidation, in.Direction)
		}
		accountSet[in.AccountID] = struct{}{}
	}

	if len(accountSet) < 2 {
		return fmt.Errorf("%w", ErrJournalMinAccounts)
	}
	return nil
}

// checkEntriesBalance verifies that debits equal credits across the entries.
func (s *postingService) checkEntriesBalance(entries []dto.EntryInput) error {
	debitsSum := decimal.Zero
	creditsSum := decimal.Zero
	for _, in := range entries {
		if domain.EntryDirection(strings.ToUpper(in.Direction)) == domain.Debit {
			debitsSum = debitsSum.Add(in.Amount)
		} else {
			creditsSum = creditsSum.Add(in.Amount)
		}
	}
	if !debitsSum.Equal(creditsSum) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s", ErrJournalUnbalanced, debitsSum.String(), creditsSum.String())
	}
	return nil
}

// journalFromIdempotencyRecord loads the journal a completed idempotency
// reservation points at, entries included.
func (s *postingService) journalFromIdempotencyRecord(ctx context.Context, record *domain.IdempotencyRecord) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, record.JournalID)
	if err != nil {
		s.LogError(ctx, err, "Idempotency record points at missing journal", "journal_id", record.JournalID)
		return nil, fmt.Errorf("failed to load journal for idempotency key: %w", apperrors.ErrInternal)
	}
	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journal.JournalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for journal %s: %w", journal.JournalID, err)
	}
	journal.Entries = entries
	return journal, nil
}

// PostTransaction validates and atomically commits a balanced journal. A
// retry carrying an already-completed idempotency key returns the journal
// the first attempt produced, without re-validating or re-applying.
func (s *postingService) PostTransaction(ctx context.Context, tenantID string, req dto.PostTransactionRequest, userID string) (*domain.Journal, error) {
	// Idempotency short-circuit. The read is an optimization only; the
	// unique constraint inside SaveJournal settles concurrent duplicates.
	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		record, err := s.idempotencyRepo.FindRecordByKey(ctx, tenantID, *req.IdempotencyKey)
		if err == nil {
			s.LogInfo(ctx, "Idempotent replay, returning existing journal", "journal_id", record.JournalID)
			return s.journalFromIdempotencyRecord(ctx, record)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	if err := s.validateEntryShape(req.Entries); err != nil {
		return nil, err
	}

	if s.rejectFutureDates && req.EffectiveDate.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: effective date %s is in the future", apperrors.ErrValidation, req.EffectiveDate.Format(time.RFC3339))
	}

	// Resolve the referenced accounts. Unknown ids and foreign-tenant ids
	// fail here, before anything touches storage.
	accountIDs := make([]string, 0, len(req.Entries))
	for _, in := range req.Entries {
		accountIDs = append(accountIDs, in.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, tenantID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, err
	}

	// All accounts must be open and share one currency, which becomes the
	// journal currency.
	var currencyCode string
	for _, id := range uniqueStrings(accountIDs) {
		acc := accounts[id]
		if !acc.IsOpen() {
			return nil, fmt.Errorf("%w: account %s is closed", apperrors.ErrPrecondition, id)
		}
		if currencyCode == "" {
			currencyCode = acc.CurrencyCode
		} else if acc.CurrencyCode != currencyCode {
			return nil, fmt.Errorf("%w: account %s uses %s, journal currency is %s", ErrCurrencyMismatch, id, acc.CurrencyCode, currencyCode)
		}
	}

	if err := s.checkEntriesBalance(req.Entries); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	journal := domain.Journal{
		JournalID:      journalID,
		TenantID:       tenantID,
		EffectiveDate:  req.EffectiveDate,
		Description:    req.Description,
		CurrencyCode:   currencyCode,
		Status:         domain.Posted,
		IdempotencyKey: req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	entries := make([]domain.LedgerEntry, len(req.Entries))
	balanceChanges := make(map[string]decimal.Decimal)
	for i, in := range req.Entries {
		direction := domain.EntryDirection(strings.ToUpper(in.Direction))
		entries[i] = domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			JournalID:     journalID,
			TenantID:      tenantID,
			AccountID:     in.AccountID,
			Amount:        in.Amount,
			Direction:     direction,
			CurrencyCode:  currencyCode,
			EffectiveDate: req.EffectiveDate,
			PostedAt:      now,
			Notes:         in.Notes,
		}

		acc := accounts[in.AccountID]
		signed, err := accounting.SignedAmount(in.Amount, direction, acc.AccountType)
		if err != nil {
			s.LogError(ctx, err, "Failed to sign entry amount", "account_id", in.AccountID)
			return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
		balanceChanges[in.AccountID] = balanceChanges[in.AccountID].Add(signed)
	}

	if err := s.journalRepo.SaveJournal(ctx, journal, entries, balanceChanges); err != nil {
		// A duplicate reservation means another request with the same key
		// committed between our pre-check and this write. Return its result.
		if errors.Is(err, apperrors.ErrDuplicate) && req.IdempotencyKey != nil {
			record, findErr := s.idempotencyRepo.FindRecordByKey(ctx, tenantID, *req.IdempotencyKey)
			if findErr == nil {
				s.LogInfo(ctx, "Lost idempotency race, returning winner's journal", "journal_id", record.JournalID)
				return s.journalFromIdempotencyRecord(ctx, record)
			}
		}
		if !errors.Is(err, apperrors.ErrPrecondition) && !errors.Is(err, apperrors.ErrUnavailable) {
			s.LogError(ctx, err, "Failed to save journal")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal posted", "journal_id", journalID, "entry_count", len(entries))
	journal.Entries = entries
	return &journal, nil
}

// GetJournalByID retrieves a journal with its entries.
func (s *postingService) GetJournalByID(ctx context.Context, tenantID string, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal", "journal_id", journalID)
		}
		return nil, err
	}

	if journal.TenantID != tenantID {
		s.LogDebug(ctx, "Journal belongs to a different tenant", "journal_id", journalID)
		return nil, apperrors.ErrNotFound
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for journal", "journal_id", journalID)
		return nil, fmt.Errorf("failed to retrieve entries for journal %s: %w", journalID, apperrors.ErrInternal)
	}
	journal.Entries = entries
	return journal, nil
}

// ListJournals retrieves a paginated list of the tenant's journals.
func (s *postingService) ListJournals(ctx context.Context, tenantID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournalsByTenant(ctx, tenantID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journals")
		}
		return nil, err
	}

	var entriesMap map[string][]domain.LedgerEntry
	if params.IncludeEntries && len(journals) > 0 {
		journalIDs := make([]string, len(journals))
		for i, journal := range journals {
			journalIDs[i] = journal.JournalID
		}
		entriesMap, err = s.journalRepo.FindEntriesByJournalIDs(ctx, journalIDs)
		if err != nil {
			// Return the headers rather than failing the whole listing.
			s.LogError(ctx, err, "Failed to fetch entries for journal listing")
			entriesMap = nil
		}
	}

	journalResponses := make([]dto.JournalResponse, len(journals))
	for i, journal := range journals {
		if entriesMap != nil {
			journal.Entries = entriesMap[journal.JournalID]
		} else {
			journal.Entries = nil
		}
		journalResponses[i] = dto.ToJournalResponse(&journal)
	}

	return &dto.ListJournalsResponse{
		Journals:  journalResponses,
		NextToken: nextToken,
	}, nil
}

// ListEntriesByAccount retrieves a paginated account statement.
func (s *postingService) ListEntriesByAccount(ctx context.Context, tenantID string, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	// Resolve the account through the tenant-scoped read so an id owned by
	// another tenant is indistinguishable from a missing one.
	if _, err := s.accountSvc.GetAccountByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByAccountID(ctx, tenantID, accountID, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list entries for account", "account_id", accountID)
		}
		return nil, err
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// ReverseJournal posts a new journal whose entries mirror the original's
// with flipped directions and marks the original REVERSED in the same
// storage transaction, so no retry or crash can leave a reversing journal
// committed with the original still POSTED. The original's entries are
// never modified.
func (s *postingService) ReverseJournal(ctx context.Context, tenantID string, journalID string, userID string) (*domain.Journal, error) {
	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to fetch journal for reversal", "journal_id", journalID)
		}
		return nil, err
	}
	if original.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	// Fast fail on an already-reversed journal. The conditional status flip
	// inside SaveReversal settles races this read cannot see.
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: journal status is %s, expected POSTED", apperrors.ErrPrecondition, original.Status)
	}
	if original.OriginalJournalID != nil {
		return nil, fmt.Errorf("%w: cannot reverse a journal that is itself a reversal", apperrors.ErrPrecondition)
	}

	originalEntries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for reversal", "journal_id", journalID)
		return nil, fmt.Errorf("failed to retrieve entries for reversal: %w", err)
	}

	now := time.Now().UTC()
	reversingJournalID := uuid.NewString()

	reversingJournal := domain.Journal{
		JournalID:         reversingJournalID,
		TenantID:          tenantID,
		EffectiveDate:     original.EffectiveDate,
		Description:       fmt.Sprintf("Reversal of journal %s", original.JournalID),
		CurrencyCode:      original.CurrencyCode,
		Status:            domain.Posted,
		OriginalJournalID: &original.JournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	reversingEntries := make([]domain.LedgerEntry, len(originalEntries))
	accountIDs := make([]string, 0, len(originalEntries))
	for i, orig := range originalEntries {
		accountIDs = append(accountIDs, orig.AccountID)
		reversingEntries[i] = domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			JournalID:     reversingJournalID,
			TenantID:      tenantID,
			AccountID:     orig.AccountID,
			Amount:        orig.Amount,
			Direction:     orig.Direction.Opposite(),
			CurrencyCode:  orig.CurrencyCode,
			EffectiveDate: original.EffectiveDate,
			PostedAt:      now,
			Notes:         orig.Notes,
		}
	}

	// The accounts must still resolve. Reversals go through the same
	// policy checks as any posting: a reversal that would drive a
	// no-negative account below zero is rejected.
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, tenantID, uniqueStrings(accountIDs))
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for reversal", "journal_id", journalID)
		return nil, fmt.Errorf("failed to get account details for reversal: %w", err)
	}

	balanceChanges := make(map[string]decimal.Decimal)
	for _, rev := range reversingEntries {
		acc := accounts[rev.AccountID]
		signed, err := accounting.SignedAmount(rev.Amount, rev.Direction, acc.AccountType)
		if err != nil {
			s.LogError(ctx, err, "Failed to sign reversal amount", "account_id", rev.AccountID)
			return nil, fmt.Errorf("failed to calculate signed amount for reversal: %w", err)
		}
		balanceChanges[rev.AccountID] = balanceChanges[rev.AccountID].Add(signed)
	}

	if err := s.journalRepo.SaveReversal(ctx, reversingJournal, reversingEntries, balanceChanges); err != nil {
		if !errors.Is(err, apperrors.ErrPrecondition) && !errors.Is(err, apperrors.ErrUnavailable) {
			s.LogError(ctx, err, "Failed to save reversing journal", "journal_id", journalID)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal reversed", "journal_id", journalID, "reversing_journal_id", reversingJournalID)
	reversingJournal.Entries = reversingEntries
	return &reversingJournal, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
