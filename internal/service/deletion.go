package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"solartrack/internal/apperr"
	"solartrack/pkg/metrics"
	"solartrack/pkg/mq"
)

// ProjectDeleter is the transactional deletion surface. Implementations must
// remove the project and all its reports as one atomic batch, never a loop of
// per-document deletes.
type ProjectDeleter interface {
	DeleteCascade(ctx context.Context, projectID int64) ([]int64, error)
}

// AlertPublisher mirrors progress.AlertPublisher for the deletion path.
type AlertPublisher interface {
	Publish(routingKey string, payload any) error
}

// DeletionCoordinator removes a project together with every one of its
// weekly reports. There is no undo; the calling layer gates this behind an
// explicit confirmation step.
type DeletionCoordinator struct {
	projects ProjectDeleter
	alerts   AlertPublisher
	logger   *zap.Logger
}

func NewDeletionCoordinator(projects ProjectDeleter, alerts AlertPublisher, logger *zap.Logger) *DeletionCoordinator {
	return &DeletionCoordinator{
		projects: projects,
		alerts:   alerts,
		logger:   logger,
	}
}

// Delete removes the project and its reports atomically. On an authorization
// denial nothing is deleted and the recoverable-error channel is notified;
// every other failure is returned to the caller as-is.
func (c *DeletionCoordinator) Delete(ctx context.Context, projectID int64) ([]int64, error) {
	reportIDs, err := c.projects.DeleteCascade(ctx, projectID)
	if err != nil {
		var authErr *apperr.AuthorizationError
		if errors.As(err, &authErr) {
			metrics.IncrementProjectDeletion("denied")
			metrics.IncrementPermissionDenied(string(authErr.Operation))
			if c.alerts != nil {
				evt := mq.NewPermissionDeniedEvent(authErr.Path, string(authErr.Operation), authErr.AttemptedData)
				if perr := c.alerts.Publish(mq.RoutingKeyPermissionDenied, evt); perr != nil {
					c.logger.Warn("Failed to publish permission denied event",
						zap.String("path", authErr.Path),
						zap.Error(perr),
					)
				}
			}
			return nil, err
		}
		metrics.IncrementProjectDeletion("error")
		return nil, err
	}

	metrics.IncrementProjectDeletion("success")
	c.logger.Info("Project deleted",
		zap.Int64("project_id", projectID),
		zap.Int("reports_deleted", len(reportIDs)),
	)
	return reportIDs, nil
}
