package progress

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"solartrack/internal/apperr"
	"solartrack/internal/milestoneset"
	"solartrack/internal/model"
	"solartrack/internal/repository"
	"solartrack/pkg/metrics"
	"solartrack/pkg/mq"
)

// ReportStore is the storage surface the writer needs for weekly reports.
type ReportStore interface {
	ListByProject(ctx context.Context, projectID int64) ([]model.WeeklyReport, error)
	GetByID(ctx context.Context, projectID, reportID int64) (*model.WeeklyReport, error)
	Insert(ctx context.Context, rep *model.WeeklyReport) (int64, error)
	Update(ctx context.Context, rep *model.WeeklyReport) error
}

// ProjectStore is the storage surface for project lookups and the
// completion status transition.
type ProjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	UpdateStatus(ctx context.Context, id int64, status model.ProjectStatus) error
}

// CatalogSource supplies the milestone catalog subset for a project type.
// The subset is injected rather than queried ad hoc so the engine is
// testable against fixtures.
type CatalogSource interface {
	MilestonesForType(ctx context.Context, projectType string) ([]model.Milestone, error)
}

// AlertPublisher is the fire-and-forget channel for recoverable permission
/// errors. Publish failures are logged, never propagated: the notification
// must not block or retry the original write.
type AlertPublisher interface {
	Publish(routingKey string, payload any) error
}

// Draft is a report payload as submitted by the caller. ReportID zero means
// create; nonzero means edit in place. Week is caller-supplied on create and
// ignored on edit (the stored week is authoritative).
type Draft struct {
	ProjectID  int64
	ReportID   int64
	Week       int
	Summary    string
	Status     model.ReportStatus
	Milestones []int64
}

// WriteResult is the settled outcome of a report write. Decision is always
// populated; its state is AwaitingConfirmation only when this write checked
// off the entire nonzero catalog subset of a not-yet-completed project.
type WriteResult struct {
	Report   *model.WeeklyReport
	Decision *Decision
}

// Writer validates and persists weekly reports. It enforces the monotonic
// inheritance invariant structurally: the inherited floor is unioned into
// every write, so no path through this type can retract a completed
// milestone.
type Writer struct {
	reports  ReportStore
	projects ProjectStore
	catalog  CatalogSource
	alerts   AlertPublisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewWriter(reports ReportStore, projects ProjectStore, catalog CatalogSource, alerts AlertPublisher, logger *zap.Logger) *Writer {
	return &Writer{
		reports:  reports,
		projects: projects,
		catalog:  catalog,
		alerts:   alerts,
		logger:   logger,
		now:      time.Now,
	}
}

// Write runs the full validator-and-writer sequence for one draft:
// read inherited floor, union, compute progress from the current catalog
// subset, validate, persist. The sequence is strictly sequential; one
// outstanding write per invocation.
func (w *Writer) Write(ctx context.Context, draft Draft) (*WriteResult, error) {
	operation := "create"
	if draft.ReportID != 0 {
		operation = "update"
	}

	project, err := w.projects.GetByID(ctx, draft.ProjectID)
	if err != nil {
		return nil, err
	}

	existing, err := w.reports.ListByProject(ctx, draft.ProjectID)
	if err != nil {
		return nil, err
	}

	week := draft.Week
	var prior *model.WeeklyReport
	if draft.ReportID != 0 {
		prior, err = w.reports.GetByID(ctx, draft.ProjectID, draft.ReportID)
		if err != nil {
			return nil, err
		}
		week = prior.Week
	}

	// Attempted removals of inherited milestones are silently dropped here:
	// the floor is always a subset of the final set. Edits to a non-latest
	// week are likewise capped by what every later report already shows
	// complete, so no sequence of writes can break the monotonic invariant.
	floor := InheritedMilestones(existing, week)
	checked := milestoneset.FromSlice(draft.Milestones).Union(floor)
	if ceiling := CompletionCeiling(existing, week); ceiling != nil {
		checked = checked.Intersect(ceiling)
	}

	catalogMilestones, err := w.catalog.MilestonesForType(ctx, project.ProjectType)
	if err != nil {
		return nil, err
	}
	catalogSet := milestoneset.New()
	for _, m := range catalogMilestones {
		catalogSet.Add(m.ID)
	}

	pct := ComputeProgress(checked.Len(), catalogSet.Len())

	if verr := w.validateDraft(draft, existing, week, pct); verr != nil {
		metrics.IncrementReportWrite(operation, "validation_failed")
		return nil, verr
	}

	report := &model.WeeklyReport{
		ID:         draft.ReportID,
		ProjectID:  draft.ProjectID,
		Week:       week,
		Progress:   pct,
		Status:     draft.Status,
		Summary:    draft.Summary,
		Milestones: checked.Slice(),
	}

	if prior != nil {
		report.CreatedAt = prior.CreatedAt
		err = w.reports.Update(ctx, report)
	} else {
		report.CreatedAt = w.now()
		report.ID, err = w.reports.Insert(ctx, report)
	}

	if err != nil {
		if errors.Is(err, repository.ErrDuplicateWeek) {
			metrics.IncrementReportWrite(operation, "validation_failed")
			return nil, &apperr.ValidationError{Fields: map[string]string{
				"week": "a report for this week already exists",
			}}
		}
		var authErr *apperr.AuthorizationError
		if errors.As(err, &authErr) {
			metrics.IncrementReportWrite(operation, "denied")
			w.notifyDenied(ctx, authErr)
			return nil, err
		}
		metrics.IncrementReportWrite(operation, "error")
		return nil, err
	}

	metrics.IncrementReportWrite(operation, "success")
	w.logger.Info("Report written",
		zap.Int64("project_id", report.ProjectID),
		zap.Int64("report_id", report.ID),
		zap.Int("week", report.Week),
		zap.Int("progress", report.Progress),
		zap.Int("milestones_checked", checked.Len()),
	)

	decision := newDecision(project, checked, catalogSet, w.projects, w.alerts, w.logger)
	return &WriteResult{Report: report, Decision: decision}, nil
}

// DecisionFor rebuilds the completion decision from current storage state,
// for callers that resolve the confirmation in a later request.
func (w *Writer) DecisionFor(ctx context.Context, projectID int64) (*Decision, error) {
	project, err := w.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	reports, err := w.reports.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	catalogMilestones, err := w.catalog.MilestonesForType(ctx, project.ProjectType)
	if err != nil {
		return nil, err
	}
	catalogSet := milestoneset.New()
	for _, m := range catalogMilestones {
		catalogSet.Add(m.ID)
	}

	// The union of every report's milestones equals the latest report's set
	// under the monotonic invariant.
	latestWeek := 0
	for _, r := range reports {
		if r.Week > latestWeek {
			latestWeek = r.Week
		}
	}
	checked := InheritedMilestones(reports, latestWeek+1)

	return newDecision(project, checked, catalogSet, w.projects, w.alerts, w.logger), nil
}

func (w *Writer) validateDraft(draft Draft, existing []model.WeeklyReport, week, pct int) error {
	fields := make(map[string]string)

	if strings.TrimSpace(draft.Summary) == "" {
		fields["summary"] = "summary must not be empty"
	}
	if !draft.Status.Valid() {
		fields["status"] = "status must be one of on_track, at_risk, off_track"
	}
	if week < 1 {
		fields["week"] = "week must be a positive integer"
	} else if draft.ReportID == 0 {
		for _, r := range existing {
			if r.Week == week {
				fields["week"] = "a report for this week already exists"
				break
			}
		}
	}
	// Checked milestones dropped from the catalog since earlier reports can
	// push the ratio past 100.
	if pct < 0 || pct > 100 {
		fields["progress"] = "progress must be between 0 and 100"
	}

	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}

func (w *Writer) notifyDenied(ctx context.Context, authErr *apperr.AuthorizationError) {
	metrics.IncrementPermissionDenied(string(authErr.Operation))
	if w.alerts == nil {
		return
	}
	evt := mq.NewPermissionDeniedEvent(authErr.Path, string(authErr.Operation), authErr.AttemptedData)
	if err := w.alerts.Publish(mq.RoutingKeyPermissionDenied, evt); err != nil {
		w.logger.Warn("Failed to publish permission denied event",
			zap.String("path", authErr.Path),
			zap.Error(err),
		)
	}
}
