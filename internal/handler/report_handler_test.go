package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solartrack/internal/apperr"
	"solartrack/internal/model"
	"solartrack/internal/progress"
)

type stubReportStore struct {
	reports   map[int64]*model.WeeklyReport
	nextID    int64
	insertErr error
}

func (s *stubReportStore) ListByProject(_ context.Context, projectID int64) ([]model.WeeklyReport, error) {
	var out []model.WeeklyReport
	for _, r := range s.reports {
		if r.ProjectID == projectID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubReportStore) GetByID(_ context.Context, projectID, reportID int64) (*model.WeeklyReport, error) {
	r, ok := s.reports[reportID]
	if !ok || r.ProjectID != projectID {
		return nil, &apperr.NotFoundError{Resource: "report", ID: reportID}
	}
	cp := *r
	return &cp, nil
}

func (s *stubReportStore) Insert(_ context.Context, rep *model.WeeklyReport) (int64, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.nextID++
	cp := *rep
	cp.ID = s.nextID
	s.reports[cp.ID] = &cp
	return cp.ID, nil
}

func (s *stubReportStore) Update(_ context.Context, rep *model.WeeklyReport) error {
	cp := *rep
	s.reports[rep.ID] = &cp
	return nil
}

type stubProjectStore struct {
	project *model.Project
}

func (s *stubProjectStore) GetByID(_ context.Context, id int64) (*model.Project, error) {
	if s.project == nil || s.project.ID != id {
		return nil, &apperr.NotFoundError{Resource: "project", ID: id}
	}
	cp := *s.project
	return &cp, nil
}

func (s *stubProjectStore) UpdateStatus(_ context.Context, id int64, status model.ProjectStatus) error {
	s.project.Status = status
	return nil
}

type stubCatalog struct {
	milestones []model.Milestone
}

func (c *stubCatalog) MilestonesForType(_ context.Context, _ string) ([]model.Milestone, error) {
	return c.milestones, nil
}

type noopAlerts struct{}

func (noopAlerts) Publish(string, any) error { return nil }

func newTestRouter(reports *stubReportStore, projects *stubProjectStore, catalog *stubCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	writer := progress.NewWriter(reports, projects, catalog, noopAlerts{}, log)
	h := NewReportHandler(writer, reports, log)
	ch := NewCompletionHandler(writer, log)

	r := gin.New()
	r.GET("/projects/:id/reports", h.ListReports)
	r.POST("/projects/:id/reports", h.CreateReport)
	r.PUT("/projects/:id/reports/:reportId", h.UpdateReport)
	r.POST("/projects/:id/completion/confirm", ch.Confirm)
	return r
}

func fixtures() (*stubReportStore, *stubProjectStore, *stubCatalog) {
	reports := &stubReportStore{reports: make(map[int64]*model.WeeklyReport)}
	projects := &stubProjectStore{project: &model.Project{
		ID:          1,
		Name:        "Rooftop array",
		ProjectType: "solar-roof",
		Status:      model.ProjectOnTrack,
	}}
	catalog := &stubCatalog{milestones: []model.Milestone{
		{ID: 1, Name: "Site survey", ProjectType: "solar-roof"},
		{ID: 2, Name: "Permit approval", ProjectType: "solar-roof"},
	}}
	return reports, projects, catalog
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateReportReturnsProgress(t *testing.T) {
	r := newTestRouter(fixtures())

	w := doJSON(t, r, http.MethodPost, "/projects/1/reports", map[string]any{
		"week":       1,
		"summary":    "survey complete",
		"status":     "on_track",
		"milestones": []int64{1},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Report struct {
			Progress int `json:"progress"`
		} `json:"report"`
		AwaitingConfirmation bool `json:"awaiting_confirmation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Report.Progress != 50 {
		t.Errorf("progress = %d, want 50", resp.Report.Progress)
	}
	if resp.AwaitingConfirmation {
		t.Error("half-complete report must not await confirmation")
	}
}

func TestCreateReportValidationReturnsFieldMap(t *testing.T) {
	r := newTestRouter(fixtures())

	w := doJSON(t, r, http.MethodPost, "/projects/1/reports", map[string]any{
		"week":    1,
		"summary": "",
		"status":  "on_track",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp.Fields["summary"]; !ok {
		t.Errorf("expected summary field error, got %v", resp.Fields)
	}
}

func TestCreateReportDenialReturnsForbidden(t *testing.T) {
	reports, projects, catalog := fixtures()
	reports.insertErr = &apperr.AuthorizationError{
		Path:      "projects/1/weeklyReports",
		Operation: apperr.OpCreate,
	}
	r := newTestRouter(reports, projects, catalog)

	w := doJSON(t, r, http.MethodPost, "/projects/1/reports", map[string]any{
		"week":    1,
		"summary": "ok",
		"status":  "on_track",
	})

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403, body = %s", w.Code, w.Body.String())
	}
}

func TestConfirmWithoutFullCompletionConflicts(t *testing.T) {
	r := newTestRouter(fixtures())

	w := doJSON(t, r, http.MethodPost, "/projects/1/completion/confirm", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body = %s", w.Code, w.Body.String())
	}
}

func TestFullCompletionFlowOverHTTP(t *testing.T) {
	reports, projects, catalog := fixtures()
	r := newTestRouter(reports, projects, catalog)

	w := doJSON(t, r, http.MethodPost, "/projects/1/reports", map[string]any{
		"week":       1,
		"summary":    "all milestones done",
		"status":     "on_track",
		"milestones": []int64{1, 2},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		AwaitingConfirmation bool `json:"awaiting_confirmation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.AwaitingConfirmation {
		t.Fatal("full completion must offer the confirmation gate")
	}

	w = doJSON(t, r, http.MethodPost, "/projects/1/completion/confirm", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, body = %s", w.Code, w.Body.String())
	}
	if projects.project.Status != model.ProjectCompleted {
		t.Errorf("project status = %s, want completed", projects.project.Status)
	}
}
