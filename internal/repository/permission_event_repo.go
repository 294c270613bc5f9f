package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PermissionEventRepository is the audit sink behind the recoverable-error
// channel: one row per storage write that access control rejected.
type PermissionEventRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPermissionEventRepository(db *pgxpool.Pool, logger *zap.Logger) *PermissionEventRepository {
	return &PermissionEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PermissionEventRepository) Insert(ctx context.Context, eventID, path, operation string, attempted json.RawMessage, occurredAt time.Time) (int64, error) {
	query := `
        INSERT INTO permission_events (event_id, path, operation, attempted_data, occurred_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query,
		eventID,
		path,
		operation,
		attempted,
		occurredAt,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert permission event",
			zap.String("path", path),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return 0, err
	}

	r.logger.Info("Permission event recorded",
		zap.Int64("id", id),
		zap.String("path", path),
		zap.String("operation", operation),
	)
	return id, nil
}
