package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles invoice uploads and the protected invoice view.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	analytics      *analytics.Client
	maxUploadBytes int64
}

// RegisterInvoiceRoutes registers the invoice routes. uploadMiddleware runs before the
// upload endpoints only (rate limiting).
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, analyticsClient *analytics.Client, maxUploadBytes int64, uploadMiddleware ...gin.HandlerFunc) {
	h := &invoiceHandler{invoiceService: invoiceService, analytics: analyticsClient, maxUploadBytes: maxUploadBytes}

	invoices := rg.Group("/invoices", uploadMiddleware...)
	{
		invoices.POST("/extract", h.extractInvoice)
		invoices.POST("", h.processInvoice)
	}
	rg.POST("/transactions/:id/invoice/view", h.viewInvoice)
}

// readUpload loads the "file" multipart field, enforcing the size limit.
func (h *invoiceHandler) readUpload(c *gin.Context) (domain.InvoiceUpload, error) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return domain.InvoiceUpload{}, apperrors.NewAppError(http.StatusRequestEntityTooLarge, "file too large", err)
		}
		return domain.InvoiceUpload{}, fmt.Errorf("%w: file is required", apperrors.ErrValidation)
	}
	content, err := readFileHeader(header)
	if err != nil {
		return domain.InvoiceUpload{}, fmt.Errorf("%w: unreadable file: %v", apperrors.ErrValidation, err)
	}
	return domain.InvoiceUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// extractInvoice godoc
// @Summary Extract invoice data
// @Description Runs text extraction on the uploaded file without storing anything
// @Tags invoices
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Invoice file (PDF or image)"
// @Success 200 {object} dto.InvoiceExtractionResponse
// @Failure 400 {object} map[string]string "Missing or unreadable file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 413 {object} map[string]string "File too large"
// @Failure 429 {object} map[string]string "Too many requests"
// @Security BearerAuth
// @Router /invoices/extract [post]
func (h *invoiceHandler) extractInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}
	upload, err := h.readUpload(c)
	if err != nil {
		respondError(c, logger, err, "Failed to read invoice upload")
		return
	}

	extraction, err := h.invoiceService.ExtractInvoice(c.Request.Context(), userID, upload)
	if err != nil {
		respondError(c, logger, err, "Failed to extract invoice data")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceExtractionResponse(extraction))
}

// processInvoice godoc
// @Summary Record an invoice
// @Description Uploads the invoice and records it as a DUE expense. Manual fields override the extracted values.
// @Tags invoices
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Invoice file (PDF or image)"
// @Param   passwordProtected formData bool false "Protect the invoice with the demo password"
// @Param   password formData string false "Password of a protected invoice"
// @Param   amount formData string false "Manual amount"
// @Param   description formData string false "Manual description"
// @Param   category formData string false "Manual category"
// @Param   date formData string false "Manual date (YYYY-MM-DD)"
// @Param   skipExtraction formData bool false "Use only the manual values"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 413 {object} map[string]string "File too large"
// @Failure 422 {object} map[string]string "Overdraft limit exceeded"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 502 {object} map[string]string "Upload or remote store failed"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) processInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}
	upload, err := h.readUpload(c)
	if err != nil {
		respondError(c, logger, err, "Failed to read invoice upload")
		return
	}
	var form dto.ProcessInvoiceForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn("Failed to bind form for ProcessInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	input, err := form.ToDomain(upload)
	if err != nil {
		respondError(c, logger, err, "Invalid invoice")
		return
	}

	logger.Info("Received invoice", slog.String("file_name", upload.FileName), slog.Int("size", len(upload.Content)))
	txn, err := h.invoiceService.ProcessInvoice(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, logger, err, "Failed to process invoice")
		return
	}
	middleware.PosthogEvent(c, h.analytics, "invoice_processed", map[string]any{
		"transaction_id":     txn.ID,
		"transaction_type":   string(txn.Type),
		"skip_extraction":    input.SkipExtraction,
		"password_protected": txn.IsPasswordProtected(),
	})
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// viewInvoice godoc
// @Summary View an invoice
// @Description Returns the invoice details. Protected invoices require the password.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   request body dto.ViewInvoiceRequest false "Password for protected invoices"
// @Success 200 {object} dto.InvoiceViewResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wrong password"
// @Failure 404 {object} map[string]string "Transaction or invoice not found"
// @Security BearerAuth
// @Router /transactions/{id}/invoice/view [post]
func (h *invoiceHandler) viewInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.ViewInvoiceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ViewInvoice", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	view, err := h.invoiceService.ViewInvoice(c.Request.Context(), userID, c.Param("id"), req.Password)
	if err != nil {
		respondError(c, logger, err, "Failed to open invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceViewResponse(view))
}
