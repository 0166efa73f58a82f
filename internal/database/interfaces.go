package database

import (
	"context"

	"tour-planner/internal/models"
)

// DataStore is the interface for data persistence
type DataStore interface {
	Close() error
	HealthCheck(ctx context.Context) error
	PointSets() PointSetRepository
	Runs() RunRepository
}

// PointSetRepository handles point set persistence
type PointSetRepository interface {
	List(ctx context.Context, search string) ([]models.PointSet, error)
	GetByID(ctx context.Context, id int64) (*models.PointSet, error)
	Create(ctx context.Context, ps *models.PointSet) (*models.PointSet, error)
	Update(ctx context.Context, ps *models.PointSet) (*models.PointSet, error)
	Delete(ctx context.Context, id int64) error
}

// RunRepository handles solver run history
type RunRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Run, int, error)
	GetByID(ctx context.Context, id string) (*models.Run, error)
	Create(ctx context.Context, run *models.Run) (*models.Run, error)
	Delete(ctx context.Context, id string) error
}
