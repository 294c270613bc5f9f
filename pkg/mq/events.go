package mq

import (
	"encoding/json"
	"time"

	"solartrack/pkg/trace"
)

const (
	// RoutingKeyPermissionDenied carries storage authorization failures to
	// the permissions audit subscriber.
	RoutingKeyPermissionDenied = "report.permission_denied"
)

// PermissionDeniedPayload describes a storage write that was rejected by the
// access-control layer. AttemptedData holds the payload of the failed write
// so a permissions administrator can diagnose the denial.
type PermissionDeniedPayload struct {
	EventID       string          `json:"event_id"`
	Path          string          `json:"path"`
	Operation     string          `json:"operation"`
	AttemptedData json.RawMessage `json:"attempted_data,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewPermissionDeniedEvent assembles a payload with a fresh event id. The
// event id lets the subscriber drop broker redeliveries.
func NewPermissionDeniedEvent(path, operation string, attempted json.RawMessage) PermissionDeniedPayload {
	return PermissionDeniedPayload{
		EventID:       trace.GenerateTraceID(),
		Path:          path,
		Operation:     operation,
		AttemptedData: attempted,
		OccurredAt:    time.Now().UTC(),
	}
}
