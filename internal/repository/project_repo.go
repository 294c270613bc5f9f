package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"solartrack/internal/apperr"
	"solartrack/internal/authz"
	"solartrack/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	guard  authz.Guard
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, guard authz.Guard, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		guard:  guard,
		logger: logger,
	}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (int64, error) {
	path := "projects"
	if err := r.guard.Authorize(authz.RoleFromContext(ctx), authz.PermissionCreateProject); err != nil {
		return 0, denied(path, apperr.OpCreate, p)
	}

	r.logger.Debug("Inserting project",
		zap.String("name", p.Name),
		zap.String("project_type", p.ProjectType),
	)

	query := `
        INSERT INTO projects (name, project_type, status, manager_id, start_date, estimated_end_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.ProjectType,
		p.Status,
		p.ManagerID,
		p.StartDate,
		p.EstimatedEndDate,
	).Scan(&id)

	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Project inserted successfully",
		zap.Int64("id", id),
		zap.String("project_type", p.ProjectType),
	)
	return id, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `
        SELECT id, name, project_type, status, manager_id, start_date, estimated_end_date, created_at, updated_at
        FROM projects
        WHERE id = $1
    `

	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.ProjectType,
		&p.Status,
		&p.ManagerID,
		&p.StartDate,
		&p.EstimatedEndDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: "project", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return &p, nil
}

// UpdateStatus sets the project lifecycle status. Used by the completion
// decision when the caller confirms.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id int64, status model.ProjectStatus) error {
	path := fmt.Sprintf("projects/%d", id)
	if err := r.guard.Authorize(authz.RoleFromContext(ctx), authz.PermissionUpdateProjectStatus); err != nil {
		return denied(path, apperr.OpUpdate, map[string]any{"status": status})
	}

	query := `
        UPDATE projects
        SET status = $1, updated_at = now()
        WHERE id = $2
    `
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update project status",
			zap.Int64("id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: "project", ID: id}
	}

	r.logger.Info("Project status updated",
		zap.Int64("id", id),
		zap.String("status", string(status)),
	)
	return nil
}

// DeleteCascade removes the project and every one of its weekly reports in a
// single transaction. Either all rows go or none do; a permission denial
// rolls the whole batch back. Returns the ids of the deleted reports.
func (r *ProjectRepository) DeleteCascade(ctx context.Context, id int64) ([]int64, error) {
	path := fmt.Sprintf("projects/%d", id)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin delete transaction", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT id FROM weekly_reports WHERE project_id = $1 ORDER BY week ASC`, id)
	if err != nil {
		r.logger.Error("Failed to enumerate reports for deletion", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	var reportIDs []int64
	for rows.Next() {
		var reportID int64
		if err := rows.Scan(&reportID); err != nil {
			rows.Close()
			return nil, err
		}
		reportIDs = append(reportIDs, reportID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.guard.Authorize(authz.RoleFromContext(ctx), authz.PermissionDeleteProject); err != nil {
		return nil, denied(path, apperr.OpDelete, nil)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM weekly_reports WHERE project_id = $1`, id); err != nil {
		r.logger.Error("Failed to delete reports", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, &apperr.NotFoundError{Resource: "project", ID: id}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit delete transaction", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	r.logger.Info("Project deleted with reports",
		zap.Int64("id", id),
		zap.Int("report_count", len(reportIDs)),
	)
	return reportIDs, nil
}
