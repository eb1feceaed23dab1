package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/finbooks-io/ledger_engine/internal/core/ports/services"
	"github.com/finbooks-io/ledger_engine/internal/dto"
	"github.com/finbooks-io/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler handles HTTP requests for derived balances.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(bs portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{
		balanceService: bs,
	}
}

// registerBalanceRoutes registers routes related to balances.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newBalanceHandler(balanceService)

	rg.GET("/accounts/:accountID/balance", h.getBalance)
	rg.POST("/balances/query", h.getBalances)
}

func (h *balanceHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	accountID := c.Param("accountID")

	var asOf *time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			logger.Warn("Invalid asOf parameter", slog.String("as_of", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be an RFC 3339 timestamp"})
			return
		}
		asOf = &parsed
	}

	balance, err := h.balanceService.GetBalance(c.Request.Context(), tenantID, accountID, asOf)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}

func (h *balanceHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.BatchBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GetBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.balanceService.GetBalances(c.Request.Context(), tenantID, req)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
