package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrOverLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrPartialUpdate), errors.Is(err, apperrors.ErrRemote):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status with a JSON error body.
// Internal errors hide the cause behind fallbackMsg.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	status := statusForError(err)
	switch {
	case status == http.StatusInternalServerError:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallbackMsg})
		return
	case status > http.StatusInternalServerError:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
	default:
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
