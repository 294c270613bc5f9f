package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solartrack/internal/model"
	"solartrack/internal/progress"
)

type ReportHandler struct {
	writer  *progress.Writer
	reports progress.ReportStore
	logger  *zap.Logger
}

func NewReportHandler(writer *progress.Writer, reports progress.ReportStore, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		writer:  writer,
		reports: reports,
		logger:  logger,
	}
}

type reportRequest struct {
	Week       int     `json:"week"`
	Summary    string  `json:"summary"`
	Status     string  `json:"status"`
	Milestones []int64 `json:"milestones"`
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	reports, err := h.reports.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListReports: failed to fetch reports",
			zap.Int64("project_id", projectID),
			zap.Error(err),
		)
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":         reports,
		"latest_progress": progress.LatestProgress(reports),
	})
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.logger.Info("CreateReport request received",
		zap.Int64("project_id", projectID),
		zap.Int("week", req.Week),
		zap.String("client_ip", c.ClientIP()),
	)

	result, err := h.writer.Write(c.Request.Context(), progress.Draft{
		ProjectID:  projectID,
		Week:       req.Week,
		Summary:    req.Summary,
		Status:     model.ReportStatus(req.Status),
		Milestones: req.Milestones,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"report":                result.Report,
		"awaiting_confirmation": result.Decision.State() == progress.DecisionAwaitingConfirmation,
	})
}

func (h *ReportHandler) UpdateReport(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	reportID, err := strconv.ParseInt(c.Param("reportId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.logger.Info("UpdateReport request received",
		zap.Int64("project_id", projectID),
		zap.Int64("report_id", reportID),
		zap.String("client_ip", c.ClientIP()),
	)

	result, err := h.writer.Write(c.Request.Context(), progress.Draft{
		ProjectID:  projectID,
		ReportID:   reportID,
		Summary:    req.Summary,
		Status:     model.ReportStatus(req.Status),
		Milestones: req.Milestones,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":                result.Report,
		"awaiting_confirmation": result.Decision.State() == progress.DecisionAwaitingConfirmation,
	})
}
