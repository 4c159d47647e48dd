package repository

import (
	"context"
	"errors"

	"github.com/guttosm/cartonization-service/internal/circuitbreaker"
	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// SolutionRepositoryWithCircuitBreaker wraps a solution archive with circuit breaker protection.
type SolutionRepositoryWithCircuitBreaker struct {
	repo           SolutionRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

var _ SolutionRepositoryInterface = (*SolutionRepositoryWithCircuitBreaker)(nil)

// NewSolutionRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewSolutionRepositoryWithCircuitBreaker(repo SolutionRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *SolutionRepositoryWithCircuitBreaker {
	return &SolutionRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Save archives a solution. The archive is not on the request's critical
// path, so an open circuit drops the write.
func (r *SolutionRepositoryWithCircuitBreaker) Save(ctx context.Context, solution *model.PackingSolution) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Save(ctx, solution)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		log.Warn().Str("solution_id", solution.SolutionID).Msg("Solution archive unavailable, skipping write")
		return nil
	}
	return err
}

// FindByID looks up a solution. A missing solution does not count as a failure.
func (r *SolutionRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id string) (*model.PackingSolution, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.PackingSolution, error) {
		s, err := r.repo.FindByID(ctx, id)
		if errors.Is(err, ErrSolutionNotFound) {
			return nil, circuitbreaker.Permanent(err)
		}
		return s, err
	})
}

// FindByOrderID lists solutions for an order with circuit breaker protection.
func (r *SolutionRepositoryWithCircuitBreaker) FindByOrderID(ctx context.Context, orderID string, limit int) ([]*model.PackingSolution, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]*model.PackingSolution, error) {
		return r.repo.FindByOrderID(ctx, orderID, limit)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *SolutionRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
