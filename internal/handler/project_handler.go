package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solartrack/internal/model"
	"solartrack/internal/service"
)

// ProjectStore is the project CRUD surface the handler needs.
type ProjectStore interface {
	Insert(ctx context.Context, p *model.Project) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
}

type ProjectHandler struct {
	projects ProjectStore
	deleter  *service.DeletionCoordinator
	logger   *zap.Logger
}

func NewProjectHandler(projects ProjectStore, deleter *service.DeletionCoordinator, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		deleter:  deleter,
		logger:   logger,
	}
}

type projectRequest struct {
	Name             string    `json:"name" binding:"required"`
	ProjectType      string    `json:"project_type" binding:"required"`
	ManagerID        int64     `json:"manager_id"`
	StartDate        time.Time `json:"start_date"`
	EstimatedEndDate time.Time `json:"estimated_end_date"`
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.logger.Info("CreateProject request received",
		zap.String("name", req.Name),
		zap.String("project_type", req.ProjectType),
		zap.String("client_ip", c.ClientIP()),
	)

	p := &model.Project{
		Name:             req.Name,
		ProjectType:      req.ProjectType,
		Status:           model.ProjectOnTrack,
		ManagerID:        req.ManagerID,
		StartDate:        req.StartDate,
		EstimatedEndDate: req.EstimatedEndDate,
	}

	id, err := h.projects.Insert(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	p.ID = id
	c.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	p, err := h.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": p})
}

// DeleteProject removes the project and every weekly report under it in one
// atomic unit. Irreversible; the UI gates this behind its own confirmation.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	h.logger.Info("DeleteProject request received",
		zap.Int64("project_id", id),
		zap.String("client_ip", c.ClientIP()),
	)

	reportIDs, err := h.deleter.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "deleted",
		"reports_deleted": len(reportIDs),
	})
}
