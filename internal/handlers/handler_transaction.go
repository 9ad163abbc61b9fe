package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	financeService portssvc.FinanceSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(fs portssvc.FinanceSvcFacade) *transactionHandler {
	return &transactionHandler{
		financeService: fs,
	}
}

// RegisterTransactionRoutes registers routes related to transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade) {
	h := newTransactionHandler(financeService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.createTransaction)
		transactions.DELETE("", h.clearTransactions)
		transactions.POST("/refresh", h.refreshTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.PATCH("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
		transactions.POST("/:id/pay", h.markAsPaid)
	}
}

// userFromContext writes 401 and returns false when the auth middleware did not set a user.
func userFromContext(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists the logged-in user's transactions, newest first, optionally filtered by type
// @Tags transactions
// @Produce  json
// @Param   filter query string false "all, income or expense" Enums(all, income, expense)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	txns, err := h.financeService.ListTransactions(c.Request.Context(), userID, params.Filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		Count:        len(txns),
	})
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Records an income or expense. Refused while the overdraft limit is exceeded.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Overdraft limit exceeded"
// @Failure 502 {object} map[string]string "Remote store failed"
// @Failure 503 {object} map[string]string "Database not ready"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	input, err := req.ToDomain()
	if err != nil {
		respondError(c, logger, err, "Invalid transaction")
		return
	}

	logger.Info("Received request to create transaction", slog.String("type", string(req.Type)), slog.String("category", req.Category))
	txn, err := h.financeService.AddTransaction(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.ID))
	middleware.SetAnalyticsProperties(c, transactionAnalytics(txn))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	txn, err := h.financeService.GetTransaction(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Merges the provided fields into the transaction. A 502 means the change is visible locally but was not persisted.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 502 {object} map[string]string "Updated locally but not persisted"
// @Failure 503 {object} map[string]string "Database not ready"
// @Security BearerAuth
// @Router /transactions/{id} [patch]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	patch, err := req.ToDomain()
	if err != nil {
		respondError(c, logger, err, "Invalid transaction update")
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	txn, err := h.financeService.UpdateTransaction(c.Request.Context(), userID, transactionID, patch)
	if err != nil {
		respondError(c, logger, err, "Failed to update transaction")
		return
	}
	middleware.SetAnalyticsProperties(c, transactionAnalytics(txn))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// markAsPaid godoc
// @Summary Mark a transaction as paid
// @Description Sets the status to PAID. Already paid transactions are returned unchanged.
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 502 {object} map[string]string "Updated locally but not persisted"
// @Security BearerAuth
// @Router /transactions/{id}/pay [post]
func (h *transactionHandler) markAsPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	txn, err := h.financeService.MarkAsPaid(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to mark transaction as paid")
		return
	}
	middleware.SetAnalyticsProperties(c, transactionAnalytics(txn))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 502 {object} map[string]string "Remote store failed"
// @Failure 503 {object} map[string]string "Database not ready"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	transactionID := c.Param("id")
	if err := h.financeService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}
	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// clearTransactions godoc
// @Summary Delete all transactions
// @Description Removes every transaction of the logged-in user
// @Tags transactions
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Remote store failed"
// @Failure 503 {object} map[string]string "Database not ready"
// @Security BearerAuth
// @Router /transactions [delete]
func (h *transactionHandler) clearTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	if err := h.financeService.ClearAllTransactions(c.Request.Context(), userID); err != nil {
		respondError(c, logger, err, "Failed to clear transactions")
		return
	}
	logger.Info("All transactions cleared")
	c.Status(http.StatusNoContent)
}

// refreshTransactions godoc
// @Summary Reload transactions from the remote store
// @Tags transactions
// @Produce  json
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Remote store failed"
// @Failure 503 {object} map[string]string "Database not ready"
// @Security BearerAuth
// @Router /transactions/refresh [post]
func (h *transactionHandler) refreshTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	txns, err := h.financeService.RefreshTransactions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to refresh transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		Count:        len(txns),
	})
}

// transactionAnalytics describes a transaction for product analytics. Amounts and
// descriptions are left out.
func transactionAnalytics(txn *domain.Transaction) map[string]any {
	return map[string]any{
		"transaction_id":     txn.ID,
		"transaction_type":   string(txn.Type),
		"transaction_status": string(txn.Status),
		"category":           txn.Category,
		"has_attachment":     !txn.Attachment.IsEmpty(),
	}
}
