package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
	"github.com/retailcore/pos_accounting/internal/dto"
	"github.com/retailcore/pos_accounting/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recurringHandler handles HTTP requests related to recurring entry templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

// newRecurringHandler creates a new recurringHandler.
func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{
		recurringService: rs,
	}
}

// registerRecurringRoutes registers routes related to recurring templates.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	recurring := rg.Group("/recurring")
	{
		recurring.POST("", h.createRecurring)
		recurring.GET("", h.listRecurring)
		recurring.GET("/:id", h.getRecurring)
		recurring.PUT("/:id", h.updateRecurring)
		recurring.DELETE("/:id", h.deactivateRecurring)
		recurring.POST("/:id/run", h.runRecurring)
		recurring.POST("/run-due", h.runDue)
	}
}

// createRecurring validates and persists a recurring template.
func (h *recurringHandler) createRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurring", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID))

	recurring, err := h.recurringService.CreateRecurring(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating recurring template", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found creating recurring template", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create recurring template in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recurring template"})
		}
		return
	}

	logger.Info("Recurring template created successfully", slog.String("recurring_id", recurring.RecurringID))
	c.JSON(http.StatusCreated, dto.ToRecurringResponse(recurring))
}

// getRecurring retrieves a template with its lines.
func (h *recurringHandler) getRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")

	recurring, err := h.recurringService.GetRecurringByID(c.Request.Context(), recurringID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Recurring template not found", slog.String("recurring_id", recurringID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Recurring template not found"})
		} else {
			logger.Error("Failed to get recurring template from service", slog.String("error", err.Error()), slog.String("recurring_id", recurringID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recurring template"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringResponse(recurring))
}

// listRecurring lists templates, active-only by default.
func (h *recurringHandler) listRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := c.DefaultQuery("activeOnly", "true") == "true"

	templates, err := h.recurringService.ListRecurring(c.Request.Context(), activeOnly)
	if err != nil {
		logger.Error("Failed to list recurring templates from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recurring templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring": dto.ToRecurringResponses(templates)})
}

// updateRecurring updates template details and optionally replaces its lines.
func (h *recurringHandler) updateRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")

	var req dto.UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRecurring", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)

	recurring, err := h.recurringService.UpdateRecurring(c.Request.Context(), recurringID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Recurring template not found for update", slog.String("recurring_id", recurringID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Recurring template not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating recurring template", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update recurring template in service", slog.String("error", err.Error()), slog.String("recurring_id", recurringID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recurring template"})
		}
		return
	}

	logger.Info("Recurring template updated successfully", slog.String("recurring_id", recurringID))
	c.JSON(http.StatusOK, dto.ToRecurringResponse(recurring))
}

// deactivateRecurring stops future generation for a template.
func (h *recurringHandler) deactivateRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")

	actorID, _ := middleware.GetActorIDFromContext(c)

	err := h.recurringService.DeactivateRecurring(c.Request.Context(), recurringID, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Recurring template not found for deactivation", slog.String("recurring_id", recurringID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Recurring template not found"})
		} else {
			logger.Error("Failed to deactivate recurring template in service", slog.String("error", err.Error()), slog.String("recurring_id", recurringID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate recurring template"})
		}
		return
	}

	logger.Info("Recurring template deactivated successfully", slog.String("recurring_id", recurringID))
	c.Status(http.StatusNoContent)
}

// runRecurring generates the due entry for one template. Running twice on
// the same day returns 409 rather than posting a duplicate.
func (h *recurringHandler) runRecurring(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recurringID := c.Param("id")

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID), slog.String("recurring_id", recurringID))

	entry, err := h.recurringService.RunRecurring(c.Request.Context(), recurringID, time.Now(), actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Recurring template not found for run")
			c.JSON(http.StatusNotFound, gin.H{"error": "Recurring template not found"})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Recurring template already ran today", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Recurring template not due", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to run recurring template in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run recurring template"})
		}
		return
	}

	logger.Info("Recurring entry generated successfully", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// runDue generates entries for every due template in one pass.
func (h *recurringHandler) runDue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID))

	generated, err := h.recurringService.RunDue(c.Request.Context(), time.Now(), actorID)
	if err != nil {
		logger.Error("Failed to run due recurring templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run due recurring templates"})
		return
	}

	resp := dto.RunDueResponse{Generated: make([]dto.EntryResponse, len(generated))}
	for i := range generated {
		resp.Generated[i] = dto.ToEntryResponse(&generated[i])
	}

	logger.Info("Recurring pass completed", slog.Int("generated", len(generated)))
	c.JSON(http.StatusOK, resp)
}
