package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"solartrack/internal/apperr"
	"solartrack/internal/authz"
	"solartrack/internal/model"
)

// ErrDuplicateWeek is returned when a create collides with an existing week
// number for the same project. The unique index on (project_id, week) is the
// backstop against two concurrent submissions computing the same week.
var ErrDuplicateWeek = errors.New("duplicate week for project")

type ReportRepository struct {
	db     *pgxpool.Pool
	guard  authz.Guard
	logger *zap.Logger
}

func NewReportRepository(db *pgxpool.Pool, guard authz.Guard, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		guard:  guard,
		logger: logger,
	}
}

func (r *ReportRepository) ListByProject(ctx context.Context, projectID int64) ([]model.WeeklyReport, error) {
	query := `
        SELECT id, project_id, week, progress, status, summary, milestone_ids, created_at
        FROM weekly_reports
        WHERE project_id = $1
        ORDER BY week ASC
    `

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list reports", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var reports []model.WeeklyReport
	for rows.Next() {
		var rep model.WeeklyReport
		if err := rows.Scan(
			&rep.ID,
			&rep.ProjectID,
			&rep.Week,
			&rep.Progress,
			&rep.Status,
			&rep.Summary,
			&rep.Milestones,
			&rep.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan report", zap.Error(err))
			return nil, err
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

func (r *ReportRepository) GetByID(ctx context.Context, projectID, reportID int64) (*model.WeeklyReport, error) {
	query := `
        SELECT id, project_id, week, progress, status, summary, milestone_ids, created_at
        FROM weekly_reports
        WHERE id = $1 AND project_id = $2
    `

	var rep model.WeeklyReport
	err := r.db.QueryRow(ctx, query, reportID, projectID).Scan(
		&rep.ID,
		&rep.ProjectID,
		&rep.Week,
		&rep.Progress,
		&rep.Status,
		&rep.Summary,
		&rep.Milestones,
		&rep.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: "report", ID: reportID}
	}
	if err != nil {
		r.logger.Error("Failed to get report",
			zap.Int64("project_id", projectID),
			zap.Int64("report_id", reportID),
			zap.Error(err),
		)
		return nil, err
	}

	return &rep, nil
}

// Insert creates a new weekly report. The write is gated by the access
// control layer; denial surfaces as an AuthorizationError carrying the
// document path and the attempted payload.
func (r *ReportRepository) Insert(ctx context.Context, rep *model.WeeklyReport) (int64, error) {
	path := fmt.Sprintf("projects/%d/weeklyReports", rep.ProjectID)
	if err := r.guard.Authorize(authz.RoleFromContext(ctx), authz.PermissionWriteReport); err != nil {
		return 0, denied(path, apperr.OpCreate, rep)
	}

	r.logger.Debug("Inserting report",
		zap.Int64("project_id", rep.ProjectID),
		zap.Int("week", rep.Week),
	)

	query := `
        INSERT INTO weekly_reports (project_id, week, progress, status, summary, milestone_ids, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query,
		rep.ProjectID,
		rep.Week,
		rep.Progress,
		rep.Status,
		rep.Summary,
		rep.Milestones,
		rep.CreatedAt,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateWeek
		}
		r.logger.Error("Failed to insert report", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Report inserted successfully",
		zap.Int64("id", id),
		zap.Int64("project_id", rep.ProjectID),
		zap.Int("week", rep.Week),
	)
	return id, nil
}

// Update rewrites summary, status, milestones and progress in place. Week and
// created_at are deliberately not touched: report identity and creation time
// are stable across edits.
func (r *ReportRepository) Update(ctx context.Context, rep *model.WeeklyReport) error {
	path := fmt.Sprintf("projects/%d/weeklyReports/%d", rep.ProjectID, rep.ID)
	if err := r.guard.Authorize(authz.RoleFromContext(ctx), authz.PermissionWriteReport); err != nil {
		return denied(path, apperr.OpUpdate, rep)
	}

	query := `
        UPDATE weekly_reports
        SET summary = $1, status = $2, progress = $3, milestone_ids = $4
        WHERE id = $5 AND project_id = $6
    `
	tag, err := r.db.Exec(ctx, query,
		rep.Summary,
		rep.Status,
		rep.Progress,
		rep.Milestones,
		rep.ID,
		rep.ProjectID,
	)
	if err != nil {
		r.logger.Error("Failed to update report",
			zap.Int64("report_id", rep.ID),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFoundError{Resource: "report", ID: rep.ID}
	}

	r.logger.Info("Report updated successfully",
		zap.Int64("report_id", rep.ID),
		zap.Int64("project_id", rep.ProjectID),
	)
	return nil
}

func denied(path string, op apperr.Operation, attempted any) error {
	var data json.RawMessage
	if attempted != nil {
		if b, err := json.Marshal(attempted); err == nil {
			data = b
		}
	}
	return &apperr.AuthorizationError{
		Path:          path,
		Operation:     op,
		AttemptedData: data,
	}
}
