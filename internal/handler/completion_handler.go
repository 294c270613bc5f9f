package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solartrack/internal/progress"
)

// CompletionHandler resolves the confirmation gate over the project
// completion transition. The decision is rebuilt from current storage state
// so the confirmation can arrive in a later request than the report write.
type CompletionHandler struct {
	writer *progress.Writer
	logger *zap.Logger
}

func NewCompletionHandler(writer *progress.Writer, logger *zap.Logger) *CompletionHandler {
	return &CompletionHandler{
		writer: writer,
		logger: logger,
	}
}

func (h *CompletionHandler) Confirm(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	h.logger.Info("Completion confirm request received",
		zap.Int64("project_id", projectID),
		zap.String("client_ip", c.ClientIP()),
	)

	decision, err := h.writer.DecisionFor(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := decision.Confirm(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

func (h *CompletionHandler) Decline(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	h.logger.Info("Completion decline request received",
		zap.Int64("project_id", projectID),
		zap.String("client_ip", c.ClientIP()),
	)

	decision, err := h.writer.DecisionFor(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := decision.Decline(); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}
