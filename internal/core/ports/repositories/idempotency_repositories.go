package repositories

import (
	"context"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// IdempotencyRepositoryFacade guards retried postings. The reservation is
// only ever written inside the posting transaction, so an aborted posting
// never leaves a stuck key behind.
type IdempotencyRepositoryFacade interface {
	// FindRecordByKey looks up a completed reservation. Returns
	// apperrors.ErrNotFound when the key has never completed a posting.
	FindRecordByKey(ctx context.Context, tenantID, idempotencyKey string) (*domain.IdempotencyRecord, error)

	// ReserveInTx inserts the reservation row inside the given transaction.
	// The storage-level unique constraint on (tenant_id, idempotency_key) is
	// the source of truth: a concurrent identical request surfaces as
	// apperrors.ErrDuplicate here, not as a check-then-act race.
	ReserveInTx(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error
}
