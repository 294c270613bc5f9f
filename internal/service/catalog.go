package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"solartrack/internal/model"
	"solartrack/pkg/metrics"
)

// MilestoneLister is the catalog read surface.
type MilestoneLister interface {
	ListByType(ctx context.Context, projectType string) ([]model.Milestone, error)
}

// CatalogService serves the milestone catalog subset for a project type
// through a redis read-through cache. The catalog is read-mostly reference
// data; cache failures degrade to the database read.
type CatalogService struct {
	milestones MilestoneLister
	rdb        *redis.Client
	ttl        time.Duration
	logger     *zap.Logger
}

func NewCatalogService(milestones MilestoneLister, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		milestones: milestones,
		rdb:        rdb,
		ttl:        ttl,
		logger:     logger,
	}
}

func (s *CatalogService) MilestonesForType(ctx context.Context, projectType string) ([]model.Milestone, error) {
	key := "catalog:" + projectType

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var milestones []model.Milestone
			if jerr := json.Unmarshal(cached, &milestones); jerr == nil {
				metrics.IncrementCatalogCache("hit")
				return milestones, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Catalog cache read failed, falling back to database",
				zap.String("project_type", projectType),
				zap.Error(err),
			)
		}
	}

	metrics.IncrementCatalogCache("miss")
	milestones, err := s.milestones.ListByType(ctx, projectType)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, jerr := json.Marshal(milestones); jerr == nil {
			if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
				s.logger.Warn("Catalog cache write failed",
					zap.String("project_type", projectType),
					zap.Error(err),
				)
			}
		}
	}

	return milestones, nil
}
