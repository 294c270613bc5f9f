package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solartrack/internal/progress"
)

type MilestoneHandler struct {
	catalog progress.CatalogSource
	logger  *zap.Logger
}

func NewMilestoneHandler(catalog progress.CatalogSource, logger *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *MilestoneHandler) ListMilestones(c *gin.Context) {
	projectType := c.Query("project_type")
	if projectType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_type required"})
		return
	}

	milestones, err := h.catalog.MilestonesForType(c.Request.Context(), projectType)
	if err != nil {
		h.logger.Error("ListMilestones: failed to fetch catalog",
			zap.String("project_type", projectType),
			zap.Error(err),
		)
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}
