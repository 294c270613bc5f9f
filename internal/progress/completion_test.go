package progress

import (
	"context"
	"errors"
	"strings"
	"testing"

	"solartrack/internal/apperr"
	"solartrack/internal/model"
	"solartrack/pkg/mq"
)

func writeFullReport(t *testing.T, w *Writer, week int, milestones []int64) *WriteResult {
	t.Helper()
	res, err := w.Write(context.Background(), Draft{
		ProjectID:  1,
		Week:       week,
		Summary:    "all done",
		Status:     model.ReportOnTrack,
		Milestones: milestones,
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return res
}

func TestDecisionArmsOnlyOnFullCatalog(t *testing.T) {
	tests := []struct {
		name          string
		catalogSize   int
		milestones    []int64
		projectStatus model.ProjectStatus
		want          DecisionState
	}{
		{"all checked", 2, []int64{1, 2}, model.ProjectOnTrack, DecisionAwaitingConfirmation},
		{"partially checked", 2, []int64{1}, model.ProjectOnTrack, DecisionPending},
		{"empty catalog never arms", 0, nil, model.ProjectOnTrack, DecisionPending},
		{"already completed", 2, []int64{1, 2}, model.ProjectCompleted, DecisionPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := newFakeReportStore()
			projects := solarRoofProject(1, tt.projectStatus)
			w := newTestWriter(reports, projects, solarRoofCatalog(tt.catalogSize), &fakeAlerts{})

			res := writeFullReport(t, w, 1, tt.milestones)
			if res.Decision.State() != tt.want {
				t.Errorf("decision state = %s, want %s", res.Decision.State(), tt.want)
			}
		})
	}
}

func TestDecisionConfirmCompletesProject(t *testing.T) {
	reports := newFakeReportStore()
	projects := solarRoofProject(1, model.ProjectOnTrack)
	w := newTestWriter(reports, projects, solarRoofCatalog(2), &fakeAlerts{})

	res := writeFullReport(t, w, 1, []int64{1, 2})
	if res.Decision.State() != DecisionAwaitingConfirmation {
		t.Fatalf("decision not armed: %s", res.Decision.State())
	}

	if err := res.Decision.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if len(projects.statusUpdates) != 1 || projects.statusUpdates[0] != model.ProjectCompleted {
		t.Errorf("status updates = %v, want [completed]", projects.statusUpdates)
	}

	// The decision is consumed; a second resolution is rejected.
	if err := res.Decision.Confirm(context.Background()); !errors.Is(err, ErrNotAwaitingConfirmation) {
		t.Errorf("second confirm = %v, want ErrNotAwaitingConfirmation", err)
	}
}

func TestDecisionDeclineLeavesProjectUntouched(t *testing.T) {
	reports := newFakeReportStore()
	projects := solarRoofProject(1, model.ProjectOnTrack)
	w := newTestWriter(reports, projects, solarRoofCatalog(2), &fakeAlerts{})

	res := writeFullReport(t, w, 3, []int64{1, 2})
	if res.Decision.State() != DecisionAwaitingConfirmation {
		t.Fatalf("decision not armed: %s", res.Decision.State())
	}

	if err := res.Decision.Decline(); err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if len(projects.statusUpdates) != 0 {
		t.Errorf("decline must not update project status, got %v", projects.statusUpdates)
	}
	if projects.project.Status != model.ProjectOnTrack {
		t.Errorf("project status = %s, want on_track", projects.project.Status)
	}

	// The report write stands regardless of the decline.
	saved, err := reports.GetByID(context.Background(), 1, res.Report.ID)
	if err != nil {
		t.Fatalf("report not persisted: %v", err)
	}
	if saved.Progress != 100 {
		t.Errorf("saved progress = %d, want 100", saved.Progress)
	}
	if len(saved.Milestones) != 2 {
		t.Errorf("saved milestones = %v, want both", saved.Milestones)
	}
}

func TestDecisionConfirmReportsWhichHalfFailed(t *testing.T) {
	reports := newFakeReportStore()
	projects := solarRoofProject(1, model.ProjectOnTrack)
	projects.statusErr = errors.New("connection reset")
	w := newTestWriter(reports, projects, solarRoofCatalog(2), &fakeAlerts{})

	res := writeFullReport(t, w, 1, []int64{1, 2})
	err := res.Decision.Confirm(context.Background())
	if err == nil {
		t.Fatal("expected confirm to fail")
	}
	if !strings.Contains(err.Error(), "report saved") {
		t.Errorf("error should say the report half succeeded: %v", err)
	}
}

func TestDecisionConfirmDenialPublishesAlert(t *testing.T) {
	reports := newFakeReportStore()
	projects := solarRoofProject(1, model.ProjectOnTrack)
	projects.statusErr = &apperr.AuthorizationError{
		Path:      "projects/1",
		Operation: apperr.OpUpdate,
	}
	alerts := &fakeAlerts{}
	w := newTestWriter(reports, projects, solarRoofCatalog(2), alerts)

	res := writeFullReport(t, w, 1, []int64{1, 2})
	if err := res.Decision.Confirm(context.Background()); err == nil {
		t.Fatal("expected confirm to fail")
	}

	if len(alerts.published) != 1 {
		t.Fatalf("expected 1 published alert, got %d", len(alerts.published))
	}
	payload := alerts.published[0].payload.(mq.PermissionDeniedPayload)
	if payload.Path != "projects/1" {
		t.Errorf("payload path = %q", payload.Path)
	}
}

func TestDecisionForRebuildsFromStorage(t *testing.T) {
	reports := newFakeReportStore()
	projects := solarRoofProject(1, model.ProjectOnTrack)
	w := newTestWriter(reports, projects, solarRoofCatalog(2), &fakeAlerts{})

	writeFullReport(t, w, 1, []int64{1})

	d, err := w.DecisionFor(context.Background(), 1)
	if err != nil {
		t.Fatalf("DecisionFor failed: %v", err)
	}
	if d.State() != DecisionPending {
		t.Errorf("state = %s, want pending after partial completion", d.State())
	}

	writeFullReport(t, w, 2, []int64{1, 2})

	d, err = w.DecisionFor(context.Background(), 1)
	if err != nil {
		t.Fatalf("DecisionFor failed: %v", err)
	}
	if d.State() != DecisionAwaitingConfirmation {
		t.Errorf("state = %s, want awaiting_confirmation after full completion", d.State())
	}

	if err := d.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if projects.project.Status != model.ProjectCompleted {
		t.Errorf("project status = %s, want completed", projects.project.Status)
	}

	// Once completed, the decision never re-arms.
	d, err = w.DecisionFor(context.Background(), 1)
	if err != nil {
		t.Fatalf("DecisionFor failed: %v", err)
	}
	if d.State() != DecisionPending {
		t.Errorf("state = %s, want pending for a completed project", d.State())
	}
}
