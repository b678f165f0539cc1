package handler

import (
	"net/http"

	apperrors "campusnet/backend/pkg/errors"
	"campusnet/backend/pkg/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindNotFound:     http.StatusNotFound,
	apperrors.KindForbidden:    http.StatusForbidden,
	apperrors.KindConflict:     http.StatusConflict,
	apperrors.KindValidation:   http.StatusBadRequest,
	apperrors.KindUnauthorized: http.StatusUnauthorized,
}

// respondError writes err as JSON. Domain errors keep their message, anything
// else is logged, reported and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	if status, ok := statusByKind[apperrors.KindOf(err)]; ok {
		c.JSON(status, ErrorResponse{Error: apperrors.MessageOf(err)})
		return
	}

	logger.Get().Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("requestID")),
		zap.Error(err))
	sentry.CaptureException(err)

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
