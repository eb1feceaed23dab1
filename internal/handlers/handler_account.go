package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks-io/ledger_engine/internal/core/ports/services"
	"github.com/finbooks-io/ledger_engine/internal/dto"
	"github.com/finbooks-io/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.POST("/:accountID/close", h.closeAccount)
		accounts.PATCH("/:accountID/policy", h.updateAccountPolicy)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID, req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

type listAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params listAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), tenantID, params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToAccountResponses(accounts)})
}

func (h *accountHandler) closeAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	accountID := c.Param("accountID")
	actorID := middleware.GetActorIDFromContext(c)

	if err := h.accountService.CloseAccount(c.Request.Context(), tenantID, accountID, actorID); err != nil {
		respondWithError(c, logger, err)
		return
	}

	logger.Info("Account closed", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) updateAccountPolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	accountID := c.Param("accountID")

	var req dto.UpdateAccountPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccountPolicy", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	account, err := h.accountService.SetAllowNegative(c.Request.Context(), tenantID, accountID, *req.AllowNegative, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
