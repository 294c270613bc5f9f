package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"solartrack/internal/repository"
	"solartrack/pkg/mq"
	"solartrack/pkg/util"
)

// PermissionDeniedHandler is the single well-known subscriber of the
// recoverable permission-error channel. It records each denial in the audit
// table so a permissions administrator can diagnose it later. Delivery is
// best-effort from the publisher's side; dedup guards against broker
// redeliveries.
type PermissionDeniedHandler struct {
	events  *repository.PermissionEventRepository
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewPermissionDeniedHandler(events *repository.PermissionEventRepository, deduper *util.Deduper, logger *zap.Logger) *PermissionDeniedHandler {
	return &PermissionDeniedHandler{
		events:  events,
		deduper: deduper,
		logger:  logger,
	}
}

func (h *PermissionDeniedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mq.PermissionDeniedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal PermissionDeniedPayload", zap.Error(err))
		return err
	}

	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, "permission_denied", p.EventID) {
		return nil
	}

	h.logger.Info("Handling report.permission_denied event",
		zap.String("path", p.Path),
		zap.String("operation", p.Operation),
	)

	if _, err := h.events.Insert(ctx, p.EventID, p.Path, p.Operation, p.AttemptedData, p.OccurredAt); err != nil {
		h.logger.Error("Failed to record permission event", zap.Error(err))
		return err
	}

	return nil
}
