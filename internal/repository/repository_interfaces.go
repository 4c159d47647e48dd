package repository

import (
	"context"
	"errors"

	"github.com/guttosm/cartonization-service/internal/domain/model"
)

var (
	// ErrCartonNotFound is returned when a carton id is not in the catalog.
	ErrCartonNotFound = errors.New("carton not found")
	// ErrSolutionNotFound is returned when no archived solution has the given id.
	ErrSolutionNotFound = errors.New("packing solution not found")
)

// CartonRepositoryInterface is the carton catalog. Every mutation bumps the
// catalog version and returns the new value.
type CartonRepositoryInterface interface {
	Snapshot(ctx context.Context) (model.CatalogSnapshot, error)
	Version(ctx context.Context) (int64, error)
	Upsert(ctx context.Context, carton model.Carton) (int64, error)
	Deactivate(ctx context.Context, id string) (int64, error)
}

// SolutionRepositoryInterface archives computed packing solutions.
type SolutionRepositoryInterface interface {
	Save(ctx context.Context, solution *model.PackingSolution) error
	FindByID(ctx context.Context, id string) (*model.PackingSolution, error)
	FindByOrderID(ctx context.Context, orderID string, limit int) ([]*model.PackingSolution, error)
}
