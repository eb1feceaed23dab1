package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks-io/ledger_engine/internal/apperrors"
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	"github.com/finbooks-io/ledger_engine/internal/models"
	"github.com/finbooks-io/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, tenant_id, account_code, name, account_type, currency_code, allow_negative, status, description, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.AccountCode,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.AllowNegative,
		&m.Status,
		&m.Description,
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

// SaveAccount inserts a new account. The unique index on
// (tenant_id, account_code) is what actually enforces code uniqueness.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.TenantID,
		modelAcc.AccountCode,
		modelAcc.Name,
		modelAcc.AccountType,
		modelAcc.CurrencyCode,
		modelAcc.AllowNegative,
		modelAcc.Status,
		modelAcc.Description,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s already exists for tenant", apperrors.ErrDuplicate, modelAcc.AccountCode)
		}
		return apperrors.NewAppError(500, "failed to save account "+modelAcc.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its primary key, any tenant.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+accountID, err)
	}

	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids
// are simply absent from the result map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find accounts by ids", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading account rows", err)
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of accounts for a tenant, sorted
// by account code for stable output.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1
		ORDER BY account_code
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts for tenant "+tenantID, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading account rows", err)
	}
	return accounts, nil
}

// CloseAccount transitions an open account to CLOSED. The status predicate
// in the UPDATE makes concurrent closes race-safe: the loser sees zero rows
// and reports the precondition failure.
func (r *PgxAccountRepository) CloseAccount(ctx context.Context, tenantID string, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4 AND tenant_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, models.AccountClosed, now, userID, accountID, tenantID, models.AccountOpen)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish "already closed" from "no such account for tenant".
		var status models.AccountStatus
		err := r.Pool.QueryRow(ctx, `SELECT status FROM accounts WHERE account_id = $1 AND tenant_id = $2;`, accountID, tenantID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return apperrors.NewAppError(500, "failed to check account status "+accountID, err)
		}
		return fmt.Errorf("%w: account %s is already closed", apperrors.ErrPrecondition, accountID)
	}
	return nil
}

// SetAllowNegative flips the negative-balance policy flag.
func (r *PgxAccountRepository) SetAllowNegative(ctx context.Context, tenantID string, accountID string, allow bool, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET allow_negative = $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4 AND tenant_id = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, allow, now, userID, accountID, tenantID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update account policy "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByIDsForUpdate selects accounts and locks their rows within
// the given transaction. Ordering by account_id keeps lock acquisition
// deterministic across concurrent postings, avoiding ABBA deadlocks.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		if isSerializationFailure(err) {
			return nil, apperrors.ErrUnavailable
		}
		return nil, apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked account row", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		if isSerializationFailure(err) {
			return nil, apperrors.ErrUnavailable
		}
		return nil, apperrors.NewAppError(500, "failed reading locked account rows", err)
	}

	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}
