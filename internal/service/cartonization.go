package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/events"
	"github.com/guttosm/cartonization-service/internal/metrics"
	"github.com/guttosm/cartonization-service/internal/packing"
	"github.com/guttosm/cartonization-service/internal/repository"
	"github.com/guttosm/cartonization-service/internal/service/cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultComputationBudget bounds the primary packing attempt.
	DefaultComputationBudget = 200 * time.Millisecond
	// DefaultFallbackBudget bounds the first-fit fallback attempt.
	DefaultFallbackBudget = 100 * time.Millisecond
	// DefaultMaxUnits caps the number of physical units in one request.
	DefaultMaxUnits = 1000

	persistTimeout = 5 * time.Second
)

// SnapshotSource supplies point-in-time carton catalog snapshots.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (model.CatalogSnapshot, error)
}

// ItemResolver completes requested items with product dimensions.
type ItemResolver interface {
	Resolve(ctx context.Context, items []model.Item) ([]model.Item, error)
}

// Cartonizer computes packing solutions.
type Cartonizer interface {
	CalculatePackingSolution(ctx context.Context, req model.PackingRequest) (*model.PackingSolution, error)
	GetSolution(ctx context.Context, id string) (*model.PackingSolution, error)
	SolutionsForOrder(ctx context.Context, orderID string, limit int) ([]*model.PackingSolution, error)
}

// BudgetFactory creates the budget for one packing attempt. The returned
// cancel func releases its resources.
type BudgetFactory func(ctx context.Context, limit time.Duration) (packing.Budget, context.CancelFunc)

// DeadlineBudget is a BudgetFactory backed by a context deadline.
func DeadlineBudget(ctx context.Context, limit time.Duration) (packing.Budget, context.CancelFunc) {
	c, cancel := context.WithTimeout(ctx, limit)
	return packing.ContextBudget(c), cancel
}

type solveFunc func(ctx context.Context, req model.PackingRequest, snap model.CatalogSnapshot, fingerprint string) (*model.PackingSolution, error)

// CartonizationService is the request-level entry point of the engine:
// it resolves items, fingerprints the request, coalesces identical
// in-flight computations and caches the results.
type CartonizationService struct {
	catalog    SnapshotSource
	resolver   ItemResolver
	cache      cache.Cache
	archive    repository.SolutionRepositoryInterface
	publisher  events.Publisher
	calculator *packing.Calculator

	budget         time.Duration
	fallbackBudget time.Duration
	newBudget      BudgetFactory
	maxUnits       int
	clock          Clock
	newID          func() string

	group singleflight.Group
	solve solveFunc
	wg    sync.WaitGroup
}

var _ Cartonizer = (*CartonizationService)(nil)

// Option configures a CartonizationService.
type Option func(*CartonizationService)

// WithResolver sets the dimension resolver.
func WithResolver(r ItemResolver) Option {
	return func(s *CartonizationService) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithArchive sets where computed solutions are archived.
func WithArchive(repo repository.SolutionRepositoryInterface) Option {
	return func(s *CartonizationService) {
		s.archive = repo
	}
}

// WithPublisher sets the outbound event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *CartonizationService) {
		s.publisher = p
	}
}

// WithBudgets sets the primary and fallback computation budgets.
func WithBudgets(primary, fallback time.Duration) Option {
	return func(s *CartonizationService) {
		if primary > 0 {
			s.budget = primary
		}
		if fallback > 0 {
			s.fallbackBudget = fallback
		}
	}
}

// WithBudgetFactory replaces how attempt budgets are created.
func WithBudgetFactory(f BudgetFactory) Option {
	return func(s *CartonizationService) {
		if f != nil {
			s.newBudget = f
		}
	}
}

// WithDimensionalDivisor sets the carrier divisor used for dimensional weight.
func WithDimensionalDivisor(divisor float64) Option {
	return func(s *CartonizationService) {
		s.calculator = packing.NewCalculator(divisor)
	}
}

// WithMaxUnits caps the physical units accepted per request.
func WithMaxUnits(n int) Option {
	return func(s *CartonizationService) {
		if n > 0 {
			s.maxUnits = n
		}
	}
}

// WithServiceClock injects the time source.
func WithServiceClock(clock Clock) Option {
	return func(s *CartonizationService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewCartonizationService creates the service. The cache is required.
func NewCartonizationService(catalog SnapshotSource, solutionCache cache.Cache, opts ...Option) *CartonizationService {
	s := &CartonizationService{
		catalog:        catalog,
		resolver:       NewDimensionResolver(nil),
		cache:          solutionCache,
		publisher:      events.LogPublisher{},
		calculator:     packing.NewCalculator(0),
		budget:         DefaultComputationBudget,
		fallbackBudget: DefaultFallbackBudget,
		newBudget:      DeadlineBudget,
		maxUnits:       DefaultMaxUnits,
		clock:          time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.solve = s.compute
	return s
}

// CalculatePackingSolution returns the packing solution for req, computing it
// at most once per fingerprint.
func (s *CartonizationService) CalculatePackingSolution(ctx context.Context, req model.PackingRequest) (*model.PackingSolution, error) {
	if req.RequestID == "" {
		req.RequestID = s.newID()
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	items, err := s.resolver.Resolve(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if err := validateResolved(items); err != nil {
		return nil, err
	}
	req.Items = items

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	req.CatalogVersion = snap.Version

	fingerprint := packing.Fingerprint(snap.Version, items, req.Rules)
	logger := log.With().
		Str("request_id", req.RequestID).
		Str("order_id", req.OrderID).
		Str("fingerprint", fingerprint).
		Int64("catalog_version", snap.Version).
		Logger()

	if sol, ok := s.cache.Get(fingerprint); ok {
		logger.Debug().Str("solution_id", sol.SolutionID).Msg("Packing solution served from cache")
		return forRequest(sol, req), nil
	}

	ch := s.group.DoChan(fingerprint, func() (interface{}, error) {
		if sol, ok := s.cache.Get(fingerprint); ok {
			return sol, nil
		}
		// Waiters share this computation, so one caller's cancellation must not abort it.
		return s.solve(context.WithoutCancel(ctx), req, snap, fingerprint)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.RecordCoalesced()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		sol, _ := res.Val.(*model.PackingSolution)
		return forRequest(sol, req), nil
	}
}

// compute runs the engine for one fingerprint and stores the result.
func (s *CartonizationService) compute(ctx context.Context, req model.PackingRequest, snap model.CatalogSnapshot, fingerprint string) (*model.PackingSolution, error) {
	start := s.clock()
	logger := log.With().
		Str("request_id", req.RequestID).
		Str("order_id", req.OrderID).
		Str("fingerprint", fingerprint).
		Int64("catalog_version", snap.Version).
		Logger()

	primaryBudget, cancelPrimary := s.newBudget(ctx, s.budget)
	defer cancelPrimary()

	cancelFallback := func() {}
	defer func() { cancelFallback() }()
	fallback := func() packing.Attempt {
		var b packing.Budget
		b, cancelFallback = s.newBudget(ctx, s.fallbackBudget)
		logger.Warn().Dur("budget", s.budget).Msg("Packing budget exhausted, falling back to first-fit")
		return packing.Attempt{Strategy: model.StrategyFirstFit, Budget: b}
	}

	strategy := req.Rules.Strategy()
	planner := packing.NewPlanner(snap, req.Rules)
	res, err := planner.Plan(packing.ExpandUnits(req.Items), packing.Attempt{Strategy: strategy, Budget: primaryBudget}, fallback)
	if err != nil {
		s.recordFailure(logger, start, strategy, err)
		return nil, err
	}

	if err := packing.Validate(res.Packages, req.Items, snap, req.Rules); err != nil {
		s.recordFailure(logger, start, res.Strategy, err)
		return nil, err
	}

	now := s.clock()
	solution := &model.PackingSolution{
		SolutionID:     s.newID(),
		RequestID:      req.RequestID,
		OrderID:        req.OrderID,
		CatalogVersion: snap.Version,
		Fingerprint:    fingerprint,
		Packages:       res.Packages,
		CreatedAt:      now.UTC(),
	}
	solution.Metrics = s.calculator.Summarize(solution.Packages, snap, res.Strategy, res.Fallback)

	elapsed := now.Sub(start)
	utilizations := make([]float64, len(solution.Packages))
	for i, p := range solution.Packages {
		utilizations[i] = p.Utilization
	}
	metrics.RecordComputation(elapsed, "success", string(res.Strategy))
	metrics.RecordSolution(utilizations, res.Fallback)

	s.cache.Set(fingerprint, snap.Version, solution)

	logger.Info().
		Str("solution_id", solution.SolutionID).
		Int("packages", solution.Metrics.TotalPackages).
		Float64("avg_utilization", solution.Metrics.AverageUtilization).
		Str("strategy", string(res.Strategy)).
		Bool("fallback", res.Fallback).
		Dur("duration", elapsed).
		Msg("Packing solution computed")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.persist(solution)
	}()

	return solution, nil
}

func (s *CartonizationService) recordFailure(logger zerolog.Logger, start time.Time, strategy model.Strategy, err error) {
	code := packing.CodeOf(err)
	metrics.RecordComputation(s.clock().Sub(start), strings.ToLower(string(code)), string(strategy))

	switch {
	case code == packing.CodeInternalValidationFailure:
		logger.Error().Err(err).Msg("Packing engine produced an invalid solution")
	case code.IsInfeasibility():
		logger.Info().Err(err).Msg("Order cannot be packed")
	default:
		logger.Warn().Err(err).Msg("Packing computation failed")
	}
}

// persist archives a fresh solution and announces it. Neither step can fail
// the request that produced the solution.
func (s *CartonizationService) persist(solution *model.PackingSolution) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if s.archive != nil {
		if err := s.archive.Save(ctx, solution); err != nil {
			log.Error().Err(err).Str("solution_id", solution.SolutionID).Msg("Failed to archive packing solution")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewSolutionCalculated(solution, s.clock())); err != nil {
			log.Error().Err(err).Str("solution_id", solution.SolutionID).Msg("Failed to publish packing solution event")
		}
	}
}

// Shutdown waits for pending archive and publish work.
func (s *CartonizationService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetSolution returns an archived solution by id.
func (s *CartonizationService) GetSolution(ctx context.Context, id string) (*model.PackingSolution, error) {
	if s.archive == nil {
		return nil, repository.ErrSolutionNotFound
	}
	return s.archive.FindByID(ctx, id)
}

// SolutionsForOrder lists the newest archived solutions of an order.
func (s *CartonizationService) SolutionsForOrder(ctx context.Context, orderID string, limit int) ([]*model.PackingSolution, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.FindByOrderID(ctx, orderID, limit)
}

// InvalidateCache drops every cached solution computed before version.
func (s *CartonizationService) InvalidateCache(version int64) {
	s.cache.InvalidateBefore(version)
}

func (s *CartonizationService) validateRequest(req model.PackingRequest) error {
	if err := req.Rules.Validate(); err != nil {
		return packing.NewError(packing.CodeInvalidRules, err.Error(), err)
	}
	if len(req.Items) == 0 {
		return invalidRequest("at least one item is required")
	}

	seen := make(map[string]struct{}, len(req.Items))
	units := 0
	for _, it := range req.Items {
		switch {
		case it.SKU == "":
			return invalidRequest("item sku is required")
		case it.Quantity <= 0:
			return invalidRequest(fmt.Sprintf("item %s: quantity must be positive", it.SKU))
		case it.Dimensions.Length < 0 || it.Dimensions.Width < 0 || it.Dimensions.Height < 0:
			return invalidRequest(fmt.Sprintf("item %s: dimensions must not be negative", it.SKU))
		case it.Weight < 0:
			return invalidRequest(fmt.Sprintf("item %s: weight must not be negative", it.SKU))
		}
		if _, dup := seen[it.SKU]; dup {
			return invalidRequest(fmt.Sprintf("item %s is listed more than once", it.SKU))
		}
		seen[it.SKU] = struct{}{}
		// Both operands are at most maxUnits here, so the sum cannot overflow.
		if it.Quantity > s.maxUnits || units+it.Quantity > s.maxUnits {
			return invalidRequest(fmt.Sprintf("request exceeds the limit of %d units", s.maxUnits))
		}
		units += it.Quantity
	}
	return nil
}

func validateResolved(items []model.Item) error {
	for _, it := range items {
		if !it.Dimensions.Valid() || it.Weight <= 0 {
			return invalidRequest(fmt.Sprintf("item %s: dimensions and weight must be positive", it.SKU))
		}
	}
	return nil
}

func invalidRequest(msg string) error {
	return packing.NewError(packing.CodeInvalidRequest, msg, nil)
}

// forRequest returns sol as seen by req. A solution computed for another
// order is re-stamped with the caller's ids; its packages are shared.
func forRequest(sol *model.PackingSolution, req model.PackingRequest) *model.PackingSolution {
	if sol == nil || (sol.OrderID == req.OrderID && sol.RequestID == req.RequestID) {
		return sol
	}
	cp := *sol
	cp.OrderID = req.OrderID
	cp.RequestID = req.RequestID
	return &cp
}

// IsNotFound reports whether err means the requested resource does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrSolutionNotFound) || errors.Is(err, repository.ErrCartonNotFound)
}
