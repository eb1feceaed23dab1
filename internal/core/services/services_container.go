package services

import (
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_engine/internal/core/ports/services"
	"github.com/finbooks-io/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since posting depends on it
	container.Account = NewAccountService(repos.AccountRepo)
	container.Posting = NewPostingService(repos.JournalRepo, repos.IdempotencyRepo, container.Account, cfg.RejectFutureEffectiveDates)
	container.Balance = NewBalanceService(repos.BalanceRepo, repos.AccountRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.PostingSvcFacade = (*postingService)(nil)
	_ portssvc.BalanceSvcFacade = (*balanceService)(nil)
)
