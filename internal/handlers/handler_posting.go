package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks-io/ledger_engine/internal/core/ports/services"
	"github.com/finbooks-io/ledger_engine/internal/core/services"
	"github.com/finbooks-io/ledger_engine/internal/dto"
	"github.com/finbooks-io/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler handles HTTP requests related to journals and entries.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newPostingHandler creates a new postingHandler.
func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{
		postingService: ps,
	}
}

// registerPostingRoutes registers routes related to journals and entries.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postTransaction)
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.POST("/:journalID/reverse", h.reverseJournal)
	}

	rg.GET("/accounts/:accountID/entries", h.listEntriesByAccount)
}

// isPostingValidationError reports whether the error is one of the
// accounting-rule violations a malformed posting request can trigger.
func isPostingValidationError(err error) bool {
	return errors.Is(err, services.ErrJournalUnbalanced) ||
		errors.Is(err, services.ErrJournalMinEntries) ||
		errors.Is(err, services.ErrJournalMinAccounts) ||
		errors.Is(err, services.ErrCurrencyMismatch)
}

func (h *postingHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorIDFromContext(c)
	journal, err := h.postingService.PostTransaction(c.Request.Context(), tenantID, req, actorID)
	if err != nil {
		if isPostingValidationError(err) {
			logger.Warn("Posting rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondWithError(c, logger, err)
		return
	}

	logger.Info("Journal posted", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

func (h *postingHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	journalID := c.Param("journalID")

	journal, err := h.postingService.GetJournalByID(c.Request.Context(), tenantID, journalID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

func (h *postingHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListJournals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.postingService.ListJournals(c.Request.Context(), tenantID, params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *postingHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	journalID := c.Param("journalID")
	actorID := middleware.GetActorIDFromContext(c)

	journal, err := h.postingService.ReverseJournal(c.Request.Context(), tenantID, journalID, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	logger.Info("Journal reversed", slog.String("journal_id", journalID), slog.String("reversing_journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

func (h *postingHandler) listEntriesByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	accountID := c.Param("accountID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntriesByAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.postingService.ListEntriesByAccount(c.Request.Context(), tenantID, accountID, params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
