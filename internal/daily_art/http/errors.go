package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/imageanchor/artaday-backend/internal/logging"
)

// statusFor maps diary errors to HTTP status codes.
func statusFor(err error) int {
	var netErr *domain.NetworkError
	var decErr *domain.DecodeError
	var storeErr *domain.StoreError

	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoCandidates):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadySubmittedToday),
		errors.Is(err, domain.ErrSubmissionInProgress),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoEntryToday):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGateNotReady), errors.As(err, &storeErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &netErr), errors.As(err, &decErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, operation string, err error) {
	status := statusFor(err)
	logger := logging.NewLogger(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.LogError(operation, err)
	} else {
		logger.LogWarnf(operation, "rejected: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
