package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	"github.com/retailcore/pos_accounting/internal/core/domain"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
	"github.com/retailcore/pos_accounting/internal/dto"
	"github.com/retailcore/pos_accounting/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createDraft)
		entries.POST("/record", h.recordSourceEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/void", h.voidEntry)
		entries.POST("/:id/reverse", h.reverseEntry)
	}

	// Account-scoped ledger view; lines from posted entries only.
	rg.GET("/accounts/:id/lines", h.listAccountLines)
}

// createDraft validates and persists a DRAFT journal entry.
func (h *journalHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID))

	entry, err := h.journalService.CreateDraft(c.Request.Context(), req, actorID)
	if err != nil {
		h.writeEntryError(c, logger, "create draft", err)
		return
	}

	logger.Info("Draft entry created successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// recordSourceEntry creates and posts an entry in one step. This is the
// path POS events take; a failed validation never leaves a posted entry.
func (h *journalHandler) recordSourceEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordSourceEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID))

	entry, err := h.journalService.RecordSourceEntry(c.Request.Context(), req, actorID)
	if err != nil {
		h.writeEntryError(c, logger, "record entry", err)
		return
	}

	logger.Info("Entry recorded and posted successfully", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry retrieves an entry together with its lines.
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Entry not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			logger.Error("Failed to get entry from service", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries returns a page of entries, newest first.
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListEntriesParams{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.EntryStatus(statusStr)
		if status != domain.Draft && status != domain.Posted && status != domain.Void {
			logger.Warn("Invalid entry status filter", slog.String("status", statusStr))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + statusStr})
			return
		}
		params.Status = &status
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + limitStr})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}
	params.IncludeLines = c.Query("includeLines") == "true"

	entries, nextToken, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid list parameters", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list entries from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	resp := dto.ListEntriesResponse{Entries: make([]dto.EntryResponse, len(entries))}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	if nextToken != "" {
		resp.NextToken = &nextToken
	}
	c.JSON(http.StatusOK, resp)
}

// postEntry transitions a draft entry to POSTED.
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID), slog.String("entry_id", entryID))

	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID, actorID)
	if err != nil {
		h.writeEntryError(c, logger, "post entry", err)
		return
	}

	logger.Info("Entry posted successfully", slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// voidEntry transitions a posted entry to VOID with a mandatory reason.
func (h *journalHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VoidEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID), slog.String("entry_id", entryID))

	entry, err := h.journalService.VoidEntry(c.Request.Context(), entryID, req, actorID)
	if err != nil {
		h.writeEntryError(c, logger, "void entry", err)
		return
	}

	logger.Info("Entry voided successfully")
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry creates a mirror-image draft of a posted entry.
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID), slog.String("entry_id", entryID))

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req, actorID)
	if err != nil {
		h.writeEntryError(c, logger, "reverse entry", err)
		return
	}

	logger.Info("Entry reversed successfully", slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// listAccountLines returns the posted lines against one account.
func (h *journalHandler) listAccountLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + limitStr})
			return
		}
		limit = parsed
	}

	lines, nextToken, err := h.journalService.ListEntryLinesByAccount(c.Request.Context(), accountID, limit, c.Query("nextToken"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for line listing", slog.String("account_id", accountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid line listing parameters", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list account lines from service", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list account lines"})
		return
	}

	resp := gin.H{"lines": toLineResponses(lines)}
	if nextToken != "" {
		resp["nextToken"] = nextToken
	}
	c.JSON(http.StatusOK, resp)
}

func toLineResponses(lines []domain.JournalEntryLine) []dto.EntryLineResponse {
	responses := make([]dto.EntryLineResponse, len(lines))
	for i := range lines {
		responses[i] = dto.ToEntryLineResponse(&lines[i])
	}
	return responses
}

// writeEntryError maps service errors from entry mutations onto HTTP statuses.
func (h *journalHandler) writeEntryError(c *gin.Context, logger *slog.Logger, action string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error on "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Entry or account not found on "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting state on "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action+" in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
