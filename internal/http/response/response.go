package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prismnews/prism-backend/internal/pkg/apperr"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

// RespondError writes the uniform error envelope
//
//	{"error": {"message": "...", "code": "..."}}
//
// mapping the error taxonomy to HTTP statuses. Unclassified errors are
// logged and surfaced as an opaque 500.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		abort(c, ae.Status, ae.Code, ae.Error())
		return
	}

	switch {
	case errors.Is(err, apperr.ErrNotAuthenticated):
		abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, apperr.ErrNotFound):
		abort(c, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, apperr.ErrConflict):
		abort(c, http.StatusConflict, "conflict", "conflicting state")
	case errors.Is(err, apperr.ErrInvalidCursor):
		abort(c, http.StatusBadRequest, "invalid_cursor", "pagination cursor is malformed")
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		abort(c, http.StatusServiceUnavailable, "upstream_unavailable", "an upstream dependency is unavailable")
	default:
		if log != nil {
			log.Error("unhandled error", "error", err)
		}
		abort(c, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func RespondBadRequest(c *gin.Context, code, message string) {
	abort(c, http.StatusBadRequest, code, message)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"message": message, "code": code},
	})
}
