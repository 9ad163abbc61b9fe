package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// settingsHandler serves settings, the balance summary and pending notifications.
type settingsHandler struct {
	financeService portssvc.FinanceSvcFacade
}

// RegisterSettingsRoutes registers the settings, summary and notification routes.
func RegisterSettingsRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade) {
	h := &settingsHandler{financeService: financeService}

	rg.GET("/settings", h.getSettings)
	rg.PUT("/settings", h.saveSettings)
	rg.GET("/summary", h.getSummary)
	rg.GET("/notifications", h.drainNotifications)
}

// getSettings godoc
// @Summary Get settings
// @Description Returns the cached settings, falling back to the defaults
// @Tags settings
// @Produce  json
// @Success 200 {object} domain.Settings
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /settings [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	settings, err := h.financeService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// saveSettings godoc
// @Summary Save settings
// @Description Writes the settings to the local cache and, when the database is ready, to the remote store.
// @Description remoteSynced is false when only the local copy was updated.
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   settings body dto.SaveSettingsRequest true "Settings"
// @Success 200 {object} domain.SettingsSaveResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /settings [put]
func (h *settingsHandler) saveSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	result, err := h.financeService.SaveSettings(c.Request.Context(), userID, req.ToDomain())
	if err != nil {
		respondError(c, logger, err, "Failed to save settings")
		return
	}
	logger.Info("Settings saved", slog.Bool("remote_synced", result.RemoteSynced))
	c.JSON(http.StatusOK, result)
}

// getSummary godoc
// @Summary Balance summary
// @Description Current balance, overdraft usage and monthly totals
// @Tags summary
// @Produce  json
// @Success 200 {object} domain.BalanceSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /summary [get]
func (h *settingsHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	summary, err := h.financeService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// drainNotifications godoc
// @Summary Pending notifications
// @Description Returns and clears the notifications produced since the last call
// @Tags notifications
// @Produce  json
// @Success 200 {object} dto.NotificationsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications [get]
func (h *settingsHandler) drainNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := userFromContext(c, logger)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NotificationsResponse{
		Notifications: h.financeService.DrainNotifications(c.Request.Context(), userID),
	})
}
