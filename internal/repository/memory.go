package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/puzpuzpuz/xsync/v4"
)

// MemoryCartonRepository is an in-process carton catalog used when MongoDB
// is not configured and in tests.
type MemoryCartonRepository struct {
	mu      sync.RWMutex
	cartons map[string]model.Carton
	version int64
}

var _ CartonRepositoryInterface = (*MemoryCartonRepository)(nil)

// NewMemoryCartonRepository returns a catalog holding seed. A non-empty seed
// starts at version 1.
func NewMemoryCartonRepository(seed []model.Carton) *MemoryCartonRepository {
	r := &MemoryCartonRepository{cartons: make(map[string]model.Carton, len(seed))}
	for _, c := range seed {
		r.cartons[c.ID] = c
	}
	if len(seed) > 0 {
		r.version = 1
	}
	return r
}

// Snapshot returns a copy of the catalog sorted by carton id.
func (r *MemoryCartonRepository) Snapshot(ctx context.Context) (model.CatalogSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.CatalogSnapshot{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cartons := make([]model.Carton, 0, len(r.cartons))
	for _, c := range r.cartons {
		cartons = append(cartons, c)
	}
	sort.Slice(cartons, func(i, j int) bool { return cartons[i].ID < cartons[j].ID })

	return model.CatalogSnapshot{Version: r.version, Cartons: cartons, FetchedAt: time.Now().UTC()}, nil
}

// Version returns the current catalog version.
func (r *MemoryCartonRepository) Version(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version, nil
}

// Upsert inserts or replaces a carton and bumps the version.
func (r *MemoryCartonRepository) Upsert(ctx context.Context, carton model.Carton) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cartons[carton.ID] = carton
	r.version++
	return r.version, nil
}

// Deactivate marks a carton INACTIVE and bumps the version.
func (r *MemoryCartonRepository) Deactivate(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cartons[id]
	if !ok {
		return 0, ErrCartonNotFound
	}
	c.Status = model.CartonStatusInactive
	r.cartons[id] = c
	r.version++
	return r.version, nil
}

// MemorySolutionRepository keeps archived solutions in a concurrent map.
type MemorySolutionRepository struct {
	solutions *xsync.Map[string, *model.PackingSolution]
}

var _ SolutionRepositoryInterface = (*MemorySolutionRepository)(nil)

// NewMemorySolutionRepository creates an empty in-memory archive.
func NewMemorySolutionRepository() *MemorySolutionRepository {
	return &MemorySolutionRepository{solutions: xsync.NewMap[string, *model.PackingSolution]()}
}

// Save stores a solution under its id.
func (r *MemorySolutionRepository) Save(_ context.Context, solution *model.PackingSolution) error {
	r.solutions.Store(solution.SolutionID, solution)
	return nil
}

// FindByID returns the solution with the given id.
func (r *MemorySolutionRepository) FindByID(_ context.Context, id string) (*model.PackingSolution, error) {
	s, ok := r.solutions.Load(id)
	if !ok {
		return nil, ErrSolutionNotFound
	}
	return s, nil
}

// FindByOrderID returns the newest solutions for an order.
func (r *MemorySolutionRepository) FindByOrderID(_ context.Context, orderID string, limit int) ([]*model.PackingSolution, error) {
	var out []*model.PackingSolution
	r.solutions.Range(func(_ string, s *model.PackingSolution) bool {
		if s.OrderID == orderID {
			out = append(out, s)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
