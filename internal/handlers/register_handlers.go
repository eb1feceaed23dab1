package handlers

import (
	"net/http"
	"strings"

	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	portssvc "github.com/finbooks-io/ledger_engine/internal/core/ports/services"
	"github.com/finbooks-io/ledger_engine/internal/middleware"
	"github.com/finbooks-io/ledger_engine/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	dbPool *pgxpool.Pool,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Health check, with an optional storage ping
	r.GET("/health", func(c *gin.Context) {
		if cfg.EnableDBCheck && dbPool != nil {
			if err := dbPool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Tenant identification is required for the entire v1 group. The tenant
	// header is trusted; authenticating it is the upstream gateway's job.
	v1 := r.Group("/api/v1", middleware.TenantMiddleware())

	registerAccountRoutes(v1, services.Account)
	registerPostingRoutes(v1, services.Posting)
	registerBalanceRoutes(v1, services.Balance)
}

// registerCustomValidators wires the domain enums into gin's binding layer.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
		return domain.AccountType(strings.ToUpper(fl.Field().String())).IsValid()
	})
	_ = v.RegisterValidation("direction", func(fl validator.FieldLevel) bool {
		return domain.EntryDirection(strings.ToUpper(fl.Field().String())).IsValid()
	})
}
