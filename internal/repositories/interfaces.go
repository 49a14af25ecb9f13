package repositories

import (
	"context"

	"github.com/chrisdamba/runwaysim/internal/models"
)

type RunRepository interface {
	Create(ctx context.Context, run *models.Run) error
	GetByID(ctx context.Context, id string) (*models.Run, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type FlightRepository interface {
	BulkCreate(ctx context.Context, runID string, flights []models.FlightRecord) error
	GetByRunID(ctx context.Context, runID string) ([]models.FlightRecord, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
