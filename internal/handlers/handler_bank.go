package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/retailcore/pos_accounting/internal/apperrors"
	portssvc "github.com/retailcore/pos_accounting/internal/core/ports/services"
	"github.com/retailcore/pos_accounting/internal/dto"
	"github.com/retailcore/pos_accounting/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankHandler handles HTTP requests related to bank accounts, their
// statement transactions and reconciliations.
type bankHandler struct {
	bankService portssvc.BankSvcFacade
}

// newBankHandler creates a new bankHandler.
func newBankHandler(bs portssvc.BankSvcFacade) *bankHandler {
	return &bankHandler{
		bankService: bs,
	}
}

// registerBankRoutes registers routes related to bank accounts and reconciliation.
func registerBankRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade) {
	h := newBankHandler(bankService)

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
		bankAccounts.GET("", h.listBankAccounts)
		bankAccounts.GET("/:id", h.getBankAccount)
		bankAccounts.POST("/:id/transactions", h.recordBankTransaction)
		bankAccounts.GET("/:id/transactions", h.listBankTransactions)
		bankAccounts.POST("/:id/reconciliations", h.startReconciliation)
		bankAccounts.GET("/:id/reconciliations", h.listReconciliations)
	}

	reconciliations := rg.Group("/reconciliations")
	{
		reconciliations.GET("/:id", h.getReconciliation)
		reconciliations.POST("/:id/complete", h.completeReconciliation)
	}
}

// createBankAccount creates a bank account linked to a GL cash account.
func (h *bankHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID))

	bankAccount, err := h.bankService.CreateBankAccount(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating bank account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("GL account not found creating bank account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create bank account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bank account"})
		}
		return
	}

	logger.Info("Bank account created successfully", slog.String("bank_account_id", bankAccount.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(bankAccount))
}

// getBankAccount retrieves a bank account by ID.
func (h *bankHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	bankAccount, err := h.bankService.GetBankAccountByID(c.Request.Context(), bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bank account not found", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else {
			logger.Error("Failed to get bank account from service", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bank account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBankAccountResponse(bankAccount))
}

// listBankAccounts lists bank accounts, active-only by default.
func (h *bankHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := c.DefaultQuery("activeOnly", "true") == "true"

	bankAccounts, err := h.bankService.ListBankAccounts(c.Request.Context(), activeOnly)
	if err != nil {
		logger.Error("Failed to list bank accounts from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bank accounts"})
		return
	}

	responses := make([]dto.BankAccountResponse, len(bankAccounts))
	for i := range bankAccounts {
		responses[i] = dto.ToBankAccountResponse(&bankAccounts[i])
	}
	c.JSON(http.StatusOK, gin.H{"bankAccounts": responses})
}

// recordBankTransaction records a statement line against a bank account.
func (h *bankHandler) recordBankTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	var req dto.RecordBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordBankTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID), slog.String("bank_account_id", bankAccountID))

	txn, err := h.bankService.RecordBankTransaction(c.Request.Context(), bankAccountID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bank account not found for transaction")
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recording bank transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record bank transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record bank transaction"})
		}
		return
	}

	logger.Info("Bank transaction recorded successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToBankTransactionResponse(txn))
}

// listBankTransactions lists statement lines for a bank account.
func (h *bankHandler) listBankTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	unreconciledOnly := c.Query("unreconciledOnly") == "true"

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + limitStr})
			return
		}
		limit = parsed
	}
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	txns, pageToken, err := h.bankService.ListBankTransactions(c.Request.Context(), bankAccountID, unreconciledOnly, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bank account not found for transaction listing", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else {
			logger.Error("Failed to list bank transactions from service", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bank transactions"})
		}
		return
	}

	resp := gin.H{"transactions": dto.ToBankTransactionResponses(txns)}
	if pageToken != nil {
		resp["nextToken"] = *pageToken
	}
	c.JSON(http.StatusOK, resp)
}

// startReconciliation opens an IN_PROGRESS reconciliation session.
func (h *bankHandler) startReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	var req dto.StartReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID), slog.String("bank_account_id", bankAccountID))

	reconciliation, err := h.bankService.StartReconciliation(c.Request.Context(), bankAccountID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bank account not found for reconciliation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error starting reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Reconciliation already open", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to start reconciliation in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation started successfully", slog.String("reconciliation_id", reconciliation.ReconciliationID))
	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(reconciliation))
}

// listReconciliations lists a bank account's reconciliation history.
func (h *bankHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	reconciliations, err := h.bankService.ListReconciliations(c.Request.Context(), bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bank account not found for reconciliation listing", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else {
			logger.Error("Failed to list reconciliations from service", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reconciliations"})
		}
		return
	}

	responses := make([]dto.ReconciliationResponse, len(reconciliations))
	for i := range reconciliations {
		responses[i] = dto.ToReconciliationResponse(&reconciliations[i])
	}
	c.JSON(http.StatusOK, gin.H{"reconciliations": responses})
}

// getReconciliation retrieves a reconciliation by ID.
func (h *bankHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	reconciliation, err := h.bankService.GetReconciliationByID(c.Request.Context(), reconciliationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reconciliation not found", slog.String("reconciliation_id", reconciliationID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation not found"})
		} else {
			logger.Error("Failed to get reconciliation from service", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reconciliation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(reconciliation))
}

// completeReconciliation marks the cleared set and closes the session.
// Completion requires the recomputed difference to be exactly zero.
func (h *bankHandler) completeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	var req dto.CompleteReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CompleteReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger = logger.With(slog.String("actor_id", actorID), slog.String("reconciliation_id", reconciliationID))

	reconciliation, err := h.bankService.CompleteReconciliation(c.Request.Context(), reconciliationID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reconciliation or transaction not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error completing reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Reconciliation cannot be completed", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to complete reconciliation in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation completed successfully")
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(reconciliation))
}
