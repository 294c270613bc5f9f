package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	ve := &ValidationError{Fields: map[string]string{"week": "bad", "summary": "empty"}}
	if got := ve.Error(); got != "validation failed: summary, week" {
		t.Errorf("validation error = %q", got)
	}

	ae := &AuthorizationError{Path: "projects/3", Operation: OpDelete}
	if got := ae.Error(); got != "permission denied: delete projects/3" {
		t.Errorf("authorization error = %q", got)
	}

	ne := &NotFoundError{Resource: "report", ID: 9}
	if got := ne.Error(); got != "report 9 not found" {
		t.Errorf("not found error = %q", got)
	}
}

func TestTypeChecksSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while writing: %w", &AuthorizationError{Path: "projects/1", Operation: OpWrite})
	if !IsAuthorization(wrapped) {
		t.Error("IsAuthorization should match wrapped errors")
	}
	if IsValidation(wrapped) || IsNotFound(wrapped) {
		t.Error("wrapped authorization error matched a different type")
	}
}

func TestClassifyStorage(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransient bool
		wantType      string
	}{
		{"nil", nil, false, ""},
		{"authorization", &AuthorizationError{Path: "projects/1", Operation: OpWrite}, false, "authorization_denied"},
		{"not found", &NotFoundError{Resource: "project", ID: 1}, false, "not_found"},
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "weekly_reports_project_id_week_key"`), false, "duplicate_key"},
		{"connection refused", errors.New("dial tcp: connection refused"), true, "db_connection_error"},
		{"deadline", context.DeadlineExceeded, true, "timeout"},
		{"canceled", context.Canceled, false, "context_canceled"},
		{"unknown", errors.New("boom"), false, "unknown_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transient, errType := ClassifyStorage(tt.err)
			if transient != tt.wantTransient || errType != tt.wantType {
				t.Errorf("ClassifyStorage = (%v, %q), want (%v, %q)", transient, errType, tt.wantTransient, tt.wantType)
			}
		})
	}
}
