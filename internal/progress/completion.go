package progress

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"solartrack/internal/apperr"
	"solartrack/internal/milestoneset"
	"solartrack/internal/model"
	"solartrack/pkg/metrics"
	"solartrack/pkg/mq"
)

// DecisionState is the confirmation gate over the project completion
// transition.
type DecisionState string

const (
	DecisionPending              DecisionState = "pending"
	DecisionAwaitingConfirmation DecisionState = "awaiting_confirmation"
)

// ErrNotAwaitingConfirmation is returned when Confirm or Decline is called
// while the decision is not offering the transition.
var ErrNotAwaitingConfirmation = errors.New("completion decision is not awaiting confirmation")

// Decision gates the project status transition to completed. It enters
// AwaitingConfirmation only when the checked set equals the entire nonzero
// catalog subset and the project is not already completed. An empty catalog
// never satisfies the condition: a project with no milestone template must
// not complete spuriously.
type Decision struct {
	state     DecisionState
	projectID int64
	projects  ProjectStore
	alerts    AlertPublisher
	logger    *zap.Logger
}

func newDecision(project *model.Project, checked, catalog milestoneset.Set, projects ProjectStore, alerts AlertPublisher, logger *zap.Logger) *Decision {
	d := &Decision{
		state:     DecisionPending,
		projectID: project.ID,
		projects:  projects,
		alerts:    alerts,
		logger:    logger,
	}
	if catalog.Len() > 0 && checked.Equal(catalog) && project.Status != model.ProjectCompleted {
		d.state = DecisionAwaitingConfirmation
	}
	return d
}

func (d *Decision) State() DecisionState {
	return d.state
}

// Confirm transitions the project to completed. The report write that armed
// this decision has already settled, so a failure here means exactly one
// half applied; the error says so.
func (d *Decision) Confirm(ctx context.Context) error {
	if d.state != DecisionAwaitingConfirmation {
		return ErrNotAwaitingConfirmation
	}

	if err := d.projects.UpdateStatus(ctx, d.projectID, model.ProjectCompleted); err != nil {
		var authErr *apperr.AuthorizationError
		if errors.As(err, &authErr) {
			metrics.IncrementPermissionDenied(string(authErr.Operation))
			if d.alerts != nil {
				evt := mq.NewPermissionDeniedEvent(authErr.Path, string(authErr.Operation), authErr.AttemptedData)
				if perr := d.alerts.Publish(mq.RoutingKeyPermissionDenied, evt); perr != nil {
					d.logger.Warn("Failed to publish permission denied event",
						zap.String("path", authErr.Path),
						zap.Error(perr),
					)
				}
			}
		}
		return fmt.Errorf("report saved but project status update failed: %w", err)
	}

	d.state = DecisionPending
	metrics.IncrementCompletionDecision("confirmed")
	d.logger.Info("Project marked completed",
		zap.Int64("project_id", d.projectID),
	)
	return nil
}

// Decline leaves the project status untouched; the report write stands.
func (d *Decision) Decline() error {
	if d.state != DecisionAwaitingConfirmation {
		return ErrNotAwaitingConfirmation
	}

	d.state = DecisionPending
	metrics.IncrementCompletionDecision("declined")
	d.logger.Info("Project completion declined",
		zap.Int64("project_id", d.projectID),
	)
	return nil
}
