package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solartrack/internal/apperr"
	"solartrack/internal/progress"
)

// respondError maps the error taxonomy onto HTTP statuses. Validation
// failures carry the per-field message map; authorization denials are kept
// distinct from everything else because only they are actionable by a
// permissions administrator.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	var ae *apperr.AuthorizationError
	if errors.As(err, &ae) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "permission denied",
			"path":      ae.Path,
			"operation": string(ae.Operation),
		})
		return
	}

	var ne *apperr.NotFoundError
	if errors.As(err, &ne) {
		c.JSON(http.StatusNotFound, gin.H{"error": ne.Error()})
		return
	}

	if errors.Is(err, progress.ErrNotAwaitingConfirmation) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	transient, errType := apperr.ClassifyStorage(err)
	logger.Error("Request failed",
		zap.String("error_type", errType),
		zap.Bool("transient", transient),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
