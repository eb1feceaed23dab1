package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/finbooks-io/ledger_engine/internal/apperrors"
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	"github.com/finbooks-io/ledger_engine/internal/models"
	"github.com/finbooks-io/ledger_engine/internal/utils/accounting"
	"github.com/finbooks-io/ledger_engine/internal/utils/mapping"
	"github.com/finbooks-io/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
	accountRepo     portsrepo.AccountRepositoryFacade
	balanceRepo     portsrepo.BalanceReader
	idempotencyRepo portsrepo.IdempotencyRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal and entry data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, balanceRepo portsrepo.BalanceReader, idempotencyRepo portsrepo.IdempotencyRepositoryFacade) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		accountRepo:     accountRepo,
		balanceRepo:     balanceRepo,
		idempotencyRepo: idempotencyRepo,
	}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, tenant_id, effective_date, description, currency_code, status, idempotency_key, original_journal_id, reversing_journal_id, created_at, created_by, last_updated_at, last_updated_by`

func scanJournal(row pgx.Row) (*models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.TenantID,
		&m.EffectiveDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.IdempotencyKey,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveJournal persists a journal, its entries and the idempotency record in
// one database transaction. The affected account rows are locked first, so
// concurrent postings against the same accounts serialize and the
// projected-balance check never works from a stale view. If anything fails
// the whole unit rolls back, idempotency reservation included.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op once the transaction is committed.

	if err := r.saveJournalInTx(ctx, tx, journal, entries, balanceChanges); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveReversal persists the reversing journal through the same locked save
// path and flips the original journal to REVERSED in the same transaction.
// The conditional UPDATE only matches a still-POSTED original; a zero-row
// result means a concurrent reversal won and the whole unit rolls back,
// reversing journal included.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.Journal, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	if reversing.OriginalJournalID == nil {
		return fmt.Errorf("%w: reversing journal carries no original journal link", apperrors.ErrValidation)
	}
	originalID := *reversing.OriginalJournalID

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.saveJournalInTx(ctx, tx, reversing, entries, balanceChanges); err != nil {
		return err
	}

	flipQuery := `
		UPDATE journals
		SET status = $1, reversing_journal_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $5 AND status = $6;
	`
	tag, err := tx.Exec(ctx, flipQuery,
		models.JournalStatus(domain.Reversed),
		reversing.JournalID,
		reversing.LastUpdatedAt,
		reversing.LastUpdatedBy,
		originalID,
		models.JournalStatus(domain.Posted),
	)
	if err != nil {
		if isSerializationFailure(err) {
			return apperrors.ErrUnavailable
		}
		return apperrors.NewAppError(500, "failed to mark journal reversed "+originalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is no longer POSTED", apperrors.ErrPrecondition, originalID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) saveJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.Journal, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	// 1. Lock the affected accounts in deterministic order.
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs)

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	// 2. Re-check lifecycle under the lock. An account closed between the
	// service's validation read and this commit must still be rejected.
	for _, acc := range lockedAccounts {
		if !acc.IsOpen() {
			return fmt.Errorf("%w: account %s is closed", apperrors.ErrPrecondition, acc.AccountID)
		}
	}

	// 3. Enforce the negative-balance policy against balances derived from
	// the entry log inside this transaction.
	totals, err := r.balanceRepo.AccountEntryTotalsInTx(ctx, tx, journal.TenantID, accountIDs)
	if err != nil {
		return err
	}
	for _, accID := range accountIDs {
		acc := lockedAccounts[accID]
		if acc.AllowNegative {
			continue
		}
		current, err := accounting.BalanceFromTotals(acc.AccountType, totals[accID].DebitTotal, totals[accID].CreditTotal)
		if err != nil {
			return apperrors.NewAppError(500, "failed to fold balance for account "+accID, err)
		}
		projected := current.Add(balanceChanges[accID])
		if projected.IsNegative() {
			return fmt.Errorf("%w: posting would drive account %s balance to %s", apperrors.ErrPrecondition, accID, projected.String())
		}
	}

	// 4. Insert the journal header.
	modelJournal := mapping.ToModelJournal(journal)
	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, journalQuery,
		modelJournal.JournalID,
		modelJournal.TenantID,
		modelJournal.EffectiveDate,
		modelJournal.Description,
		modelJournal.CurrencyCode,
		modelJournal.Status,
		modelJournal.IdempotencyKey,
		modelJournal.OriginalJournalID,
		modelJournal.ReversingJournalID,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	)
	if err != nil {
		if isSerializationFailure(err) {
			return apperrors.ErrUnavailable
		}
		return apperrors.NewAppError(500, "failed to insert journal "+modelJournal.JournalID, err)
	}

	// 5. Reserve the idempotency key, if any. The unique constraint is the
	// arbiter between concurrent identical requests: the loser of the race
	// fails here and its whole transaction rolls back.
	if journal.IdempotencyKey != nil {
		record := domain.IdempotencyRecord{
			TenantID:       journal.TenantID,
			IdempotencyKey: *journal.IdempotencyKey,
			JournalID:      journal.JournalID,
			CreatedAt:      journal.CreatedAt,
		}
		if err := r.idempotencyRepo.ReserveInTx(ctx, tx, record); err != nil {
			return err
		}
	}

	// 6. Insert the entries as a batch.
	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO ledger_entries (entry_id, journal_id, tenant_id, account_id, amount, direction, currency_code, effective_date, posted_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, entry := range entries {
		modelEntry := mapping.ToModelLedgerEntry(entry)
		batch.Queue(entryQuery,
			modelEntry.EntryID,
			modelEntry.JournalID,
			modelEntry.TenantID,
			modelEntry.AccountID,
			modelEntry.Amount,
			modelEntry.Direction,
			modelEntry.CurrencyCode,
			modelEntry.EffectiveDate,
			modelEntry.PostedAt,
			modelEntry.Notes,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isSerializationFailure(err) {
			return apperrors.ErrUnavailable
		}
		return apperrors.NewAppError(500, "failed to execute entry batch for journal "+modelJournal.JournalID, err)
	}

	return nil
}

// FindJournalByID retrieves a journal header by its ID, any tenant.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal "+journalID, err)
	}

	journal := mapping.ToDomainJournal(*m)
	return &journal, nil
}

// ListJournalsByTenant retrieves a page of journals ordered by effective
// date, newest first, using the (effective_date, created_at) cursor.
func (r *PgxJournalRepository) ListJournalsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	args := []interface{}{tenantID}
	query := `SELECT ` + journalColumns + ` FROM journals WHERE tenant_id = $1`

	if !includeReversals {
		query += ` AND original_journal_id IS NULL AND status <> 'REVERSED'`
	}

	if nextToken != nil && *nextToken != "" {
		effectiveDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, effectiveDate, createdAt)
		query += fmt.Sprintf(` AND (effective_date, created_at) < ($%d, $%d)`, len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY effective_date DESC, created_at DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journals for tenant "+tenantID, err)
	}
	defer rows.Close()

	var journals []domain.Journal
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		journals = append(journals, mapping.ToDomainJournal(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed reading journal rows", err)
	}

	var newNextToken *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[len(journals)-1]
		token := pagination.EncodeToken(last.EffectiveDate, last.CreatedAt)
		newNextToken = &token
	}
	return journals, newNextToken, nil
}

const entryColumns = `entry_id, journal_id, tenant_id, account_id, amount, direction, currency_code, effective_date, posted_at, notes`

func scanEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.JournalID,
		&m.TenantID,
		&m.AccountID,
		&m.Amount,
		&m.Direction,
		&m.CurrencyCode,
		&m.EffectiveDate,
		&m.PostedAt,
		&m.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindEntriesByJournalID retrieves all entries of one journal.
func (r *PgxJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE journal_id = $1 ORDER BY entry_id;`

	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find entries for journal "+journalID, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading entry rows", err)
	}
	return entries, nil
}

// FindEntriesByJournalIDs retrieves entries for several journals, grouped
// by journal ID.
func (r *PgxJournalRepository) FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.LedgerEntry, error) {
	if len(journalIDs) == 0 {
		return map[string][]domain.LedgerEntry{}, nil
	}

	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE journal_id = ANY($1) ORDER BY journal_id, entry_id;`

	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find entries for journals", err)
	}
	defer rows.Close()

	grouped := make(map[string][]domain.LedgerEntry, len(journalIDs))
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		grouped[m.JournalID] = append(grouped[m.JournalID], mapping.ToDomainLedgerEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading entry rows", err)
	}
	return grouped, nil
}

// ListEntriesByAccountID retrieves a page of an account's entries, newest
// posting first, using a posted_at cursor.
func (r *PgxJournalRepository) ListEntriesByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := []interface{}{tenantID, accountID}
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND account_id = $2`

	if nextToken != nil && *nextToken != "" {
		postedBefore, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, postedBefore)
		query += fmt.Sprintf(` AND posted_at < $%d`, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY posted_at DESC, entry_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list entries for account "+accountID, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed reading entry rows", err)
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeDateBasedToken(entries[len(entries)-1].PostedAt)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}
