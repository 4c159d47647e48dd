package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/guttosm/cartonization-service/internal/circuitbreaker"
	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/metrics"
	"github.com/guttosm/cartonization-service/internal/packing"
	"github.com/guttosm/cartonization-service/internal/repository"
	"github.com/guttosm/cartonization-service/internal/service/cache"
	"github.com/rs/zerolog/log"
)

const catalogDependency = "carton_catalog"

// CatalogManager reads and mutates the carton catalog.
type CatalogManager interface {
	Snapshot(ctx context.Context) (model.CatalogSnapshot, error)
	Upsert(ctx context.Context, carton model.Carton) (int64, error)
	Deactivate(ctx context.Context, id string) (int64, error)
}

// CatalogService reads carton catalog snapshots and applies catalog
// mutations. Every version change raises the solution cache's version floor.
type CatalogService struct {
	repo    repository.CartonRepositoryInterface
	breaker *circuitbreaker.CircuitBreaker
	retry   circuitbreaker.RetryConfig
	cache   cache.Cache

	mu   sync.RWMutex
	last *model.CatalogSnapshot
}

// CatalogOption configures a CatalogService.
type CatalogOption func(*CatalogService)

// WithCatalogBreaker sets the circuit breaker guarding catalog calls.
func WithCatalogBreaker(cb *circuitbreaker.CircuitBreaker) CatalogOption {
	return func(s *CatalogService) {
		if cb != nil {
			s.breaker = cb
		}
	}
}

// WithCatalogRetry sets the retry policy for catalog reads.
func WithCatalogRetry(cfg circuitbreaker.RetryConfig) CatalogOption {
	return func(s *CatalogService) {
		s.retry = cfg
	}
}

var _ CatalogManager = (*CatalogService)(nil)

// NewCatalogService creates a catalog service. solutionCache may be nil.
func NewCatalogService(repo repository.CartonRepositoryInterface, solutionCache cache.Cache, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		repo:  repo,
		cache: solutionCache,
		retry: circuitbreaker.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.breaker == nil {
		cfg := circuitbreaker.DefaultConfig()
		cfg.Name = catalogDependency
		s.breaker = circuitbreaker.New(cfg)
	}
	return s
}

// Breaker exposes the catalog circuit breaker for health reporting.
func (s *CatalogService) Breaker() *circuitbreaker.CircuitBreaker {
	return s.breaker
}

// Snapshot returns a point-in-time view of the catalog. Transient failures
// are retried; once retries are exhausted the last known snapshot is served.
func (s *CatalogService) Snapshot(ctx context.Context) (model.CatalogSnapshot, error) {
	snap, err := circuitbreaker.Retry(ctx, s.breaker, s.retry, s.repo.Snapshot)
	if err == nil {
		metrics.RecordDependencyCall(catalogDependency, "success")
		s.remember(snap)
		return snap, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.CatalogSnapshot{}, ctxErr
	}

	if last, ok := s.lastKnown(); ok {
		metrics.RecordDependencyCall(catalogDependency, "degraded")
		log.Warn().
			Err(err).
			Int64("catalog_version", last.Version).
			Msg("Carton catalog unavailable, serving last known snapshot")
		return last, nil
	}

	metrics.RecordDependencyCall(catalogDependency, "failure")
	return model.CatalogSnapshot{}, packing.NewError(packing.CodeDependencyUnavailable, "carton catalog unavailable", err)
}

// Refresh checks the catalog version and reloads the snapshot when another
// writer changed it.
func (s *CatalogService) Refresh(ctx context.Context) error {
	version, err := circuitbreaker.Retry(ctx, s.breaker, s.retry, s.repo.Version)
	if err != nil {
		metrics.RecordDependencyCall(catalogDependency, "failure")
		return fmt.Errorf("read catalog version: %w", err)
	}
	if last, ok := s.lastKnown(); ok && last.Version >= version {
		return nil
	}
	_, err = s.Snapshot(ctx)
	return err
}

// Upsert validates and stores a carton, returning the new catalog version.
func (s *CatalogService) Upsert(ctx context.Context, carton model.Carton) (int64, error) {
	if carton.Status == "" {
		carton.Status = model.CartonStatusActive
	}
	if err := validateCarton(carton); err != nil {
		return 0, err
	}

	version, err := circuitbreaker.Call(ctx, s.breaker, func() (int64, error) {
		return s.repo.Upsert(ctx, carton)
	})
	if err != nil {
		return 0, s.mutationError(err)
	}

	log.Info().Str("carton_id", carton.ID).Int64("catalog_version", version).Msg("Carton upserted")
	s.advance(version)
	return version, nil
}

// Deactivate marks a carton INACTIVE, returning the new catalog version.
func (s *CatalogService) Deactivate(ctx context.Context, id string) (int64, error) {
	version, err := circuitbreaker.Call(ctx, s.breaker, func() (int64, error) {
		v, err := s.repo.Deactivate(ctx, id)
		if errors.Is(err, repository.ErrCartonNotFound) {
			return 0, circuitbreaker.Permanent(err)
		}
		return v, err
	})
	if err != nil {
		return 0, s.mutationError(err)
	}

	log.Info().Str("carton_id", id).Int64("catalog_version", version).Msg("Carton deactivated")
	s.advance(version)
	return version, nil
}

func (s *CatalogService) mutationError(err error) error {
	if errors.Is(err, repository.ErrCartonNotFound) {
		return err
	}
	metrics.RecordDependencyCall(catalogDependency, "failure")
	return packing.NewError(packing.CodeDependencyUnavailable, "carton catalog write failed", err)
}

func (s *CatalogService) remember(snap model.CatalogSnapshot) {
	s.mu.Lock()
	if s.last == nil || snap.Version >= s.last.Version {
		cp := snap
		s.last = &cp
	}
	s.mu.Unlock()
	s.advance(snap.Version)
}

// advance publishes a newly observed version and invalidates older solutions.
func (s *CatalogService) advance(version int64) {
	metrics.SetCatalogVersion(version)
	if s.cache != nil {
		s.cache.InvalidateBefore(version)
	}
}

func (s *CatalogService) lastKnown() (model.CatalogSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return model.CatalogSnapshot{}, false
	}
	return *s.last, true
}

func validateCarton(c model.Carton) error {
	var problem string
	switch {
	case c.ID == "":
		problem = "carton id is required"
	case !c.Dimensions.Valid():
		problem = "carton dimensions must be positive"
	case c.MaxWeight <= 0:
		problem = "carton max_weight must be positive"
	case c.Cost.IsNegative():
		problem = "carton cost must not be negative"
	case c.Status != model.CartonStatusActive && c.Status != model.CartonStatusInactive:
		problem = fmt.Sprintf("unknown carton status %q", c.Status)
	default:
		return nil
	}
	return packing.NewError(packing.CodeInvalidRequest, problem, nil)
}
