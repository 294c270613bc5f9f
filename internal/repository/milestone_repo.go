package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"solartrack/internal/model"
)

type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{
		db:     db,
		logger: logger,
	}
}

// ListByType returns the catalog subset for a project type. The catalog is
// read-only reference data; there is no write path here.
func (r *MilestoneRepository) ListByType(ctx context.Context, projectType string) ([]model.Milestone, error) {
	query := `
        SELECT id, name, description, project_type
        FROM milestones
        WHERE project_type = $1
        ORDER BY id ASC
    `

	rows, err := r.db.Query(ctx, query, projectType)
	if err != nil {
		r.logger.Error("Failed to list milestones",
			zap.String("project_type", projectType),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	var milestones []model.Milestone
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Description,
			&m.ProjectType,
		); err != nil {
			r.logger.Error("Failed to scan milestone", zap.Error(err))
			return nil, err
		}
		milestones = append(milestones, m)
	}

	return milestones, rows.Err()
}
