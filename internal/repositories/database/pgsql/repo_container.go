package pgsql

import (
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	balanceRepo := newPgxBalanceRepository(dbPool)
	idempotencyRepo := newPgxIdempotencyRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo, balanceRepo, idempotencyRepo)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		JournalRepo:     journalRepo,
		BalanceRepo:     balanceRepo,
		IdempotencyRepo: idempotencyRepo,
	}
}
