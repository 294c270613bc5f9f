package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"solartrack/internal/handler"
	"solartrack/pkg/metrics"
	"solartrack/pkg/mq"
	"solartrack/pkg/trace"
)

func NewRouter(
	projectHandler *handler.ProjectHandler,
	reportHandler *handler.ReportHandler,
	completionHandler *handler.CompletionHandler,
	milestoneHandler *handler.MilestoneHandler,
	logger *zap.Logger,
	db *pgxpool.Pool,
	publisher *mq.Publisher,
	jwtSecret string,
) *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName())
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName(), traceID)

		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(status), latency)
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("trace_id", traceID),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		if publisher != nil && !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.POST("/projects", projectHandler.CreateProject)
		auth.GET("/projects/:id", projectHandler.GetProject)
		auth.DELETE("/projects/:id", projectHandler.DeleteProject)

		auth.GET("/projects/:id/reports", reportHandler.ListReports)
		auth.POST("/projects/:id/reports", reportHandler.CreateReport)
		auth.PUT("/projects/:id/reports/:reportId", reportHandler.UpdateReport)

		auth.POST("/projects/:id/completion/confirm", completionHandler.Confirm)
		auth.POST("/projects/:id/completion/decline", completionHandler.Decline)

		auth.GET("/milestones", milestoneHandler.ListMilestones)
	}

	return r
}
