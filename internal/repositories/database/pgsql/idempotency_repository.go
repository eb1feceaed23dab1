package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks-io/ledger_engine/internal/apperrors"
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxIdempotencyRepository struct {
	BaseRepository
}

// newPgxIdempotencyRepository creates a new repository for idempotency
// reservations.
func newPgxIdempotencyRepository(pool *pgxpool.Pool) portsrepo.IdempotencyRepositoryFacade {
	return &PgxIdempotencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.IdempotencyRepositoryFacade = (*PgxIdempotencyRepository)(nil)

// FindRecordByKey looks up a completed reservation for a tenant-scoped key.
func (r *PgxIdempotencyRepository) FindRecordByKey(ctx context.Context, tenantID, idempotencyKey string) (*domain.IdempotencyRecord, error) {
	query := `
		SELECT tenant_id, idempotency_key, journal_id, created_at
		FROM idempotency_keys
		WHERE tenant_id = $1 AND idempotency_key = $2;
	`
	var record domain.IdempotencyRecord
	err := r.Pool.QueryRow(ctx, query, tenantID, idempotencyKey).Scan(
		&record.TenantID,
		&record.IdempotencyKey,
		&record.JournalID,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to look up idempotency key", err)
	}
	return &record, nil
}

// ReserveInTx inserts the reservation inside the caller's transaction. The
// unique index on (tenant_id, idempotency_key) closes the race between two
// concurrent identical requests: exactly one insert wins, the other gets
// ErrDuplicate when its transaction hits the constraint.
func (r *PgxIdempotencyRepository) ReserveInTx(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error {
	query := `
		INSERT INTO idempotency_keys (tenant_id, idempotency_key, journal_id, created_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := tx.Exec(ctx, query, record.TenantID, record.IdempotencyKey, record.JournalID, record.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
		}
		if isSerializationFailure(err) {
			return apperrors.ErrUnavailable
		}
		return apperrors.NewAppError(500, "failed to reserve idempotency key", err)
	}
	return nil
}
