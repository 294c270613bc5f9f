package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"solartrack/internal/authz"
	"solartrack/internal/config"
	"solartrack/internal/handler"
	"solartrack/internal/httpserver"
	"solartrack/internal/mqhandler"
	"solartrack/internal/progress"
	"solartrack/internal/repository"
	"solartrack/internal/service"
	"solartrack/pkg/db"
	"solartrack/pkg/logger"
	"solartrack/pkg/mq"
	"solartrack/pkg/redisclient"
	"solartrack/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting solartrack...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("mq_url", cfg.MQ.URL),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// MQ publisher for the permission-error channel
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	guard := authz.RoleGuard{}

	projectRepo := repository.NewProjectRepository(dbConn, guard, log)
	reportRepo := repository.NewReportRepository(dbConn, guard, log)
	milestoneRepo := repository.NewMilestoneRepository(dbConn, log)
	permissionEventRepo := repository.NewPermissionEventRepository(dbConn, log)

	catalogTTL := time.Duration(cfg.Catalog.CacheTTLSeconds) * time.Second
	if catalogTTL <= 0 {
		catalogTTL = 5 * time.Minute
	}
	catalog := service.NewCatalogService(milestoneRepo, rdb, catalogTTL, log)

	writer := progress.NewWriter(reportRepo, projectRepo, catalog, publisher, log)
	deleter := service.NewDeletionCoordinator(projectRepo, publisher, log)

	// MQ consumer: the permission-error channel's single subscriber
	deduper := util.NewDeduper(rdb, 24*time.Hour, log)
	permissionHandler := mqhandler.NewPermissionDeniedHandler(permissionEventRepo, deduper, log)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, mq.RoutingKeyPermissionDenied+".q", mq.RoutingKeyPermissionDenied, log)
	if err != nil {
		log.Fatal("Failed to init permission event consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(permissionHandler.Handle)

	go func() {
		log.Info("Starting permission event consumer...")
		if err := consumer.StartConsuming(); err != nil {
			log.Error("Permission event consumer stopped", zap.Error(err))
		}
	}()

	// HTTP server
	projectHandler := handler.NewProjectHandler(projectRepo, deleter, log)
	reportHandler := handler.NewReportHandler(writer, reportRepo, log)
	completionHandler := handler.NewCompletionHandler(writer, log)
	milestoneHandler := handler.NewMilestoneHandler(catalog, log)

	router := httpserver.NewRouter(
		projectHandler,
		reportHandler,
		completionHandler,
		milestoneHandler,
		log,
		dbConn,
		publisher,
		cfg.JWT.Secret,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("solartrack is fully initialized and running",
		zap.String("http_addr", srv.Addr),
		zap.String("mq_queue", mq.RoutingKeyPermissionDenied+".q"),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down solartrack gracefully...")

	consumer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("solartrack shutdown complete")
}
