package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/cartonization-service/internal/circuitbreaker"
	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/metrics"
	"github.com/guttosm/cartonization-service/internal/packing"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const dimensionDependency = "product_dimensions"

// DefaultDimensionCacheTTL is how long looked-up product dimensions are reused.
const DefaultDimensionCacheTTL = 5 * time.Minute

// ErrProductNotFound is returned by a DimensionProvider for unknown SKUs.
var ErrProductNotFound = errors.New("product not found")

// DimensionProvider looks up product master data.
type DimensionProvider interface {
	Lookup(ctx context.Context, sku string) (model.ProductDimensions, error)
}

type cachedDimensions struct {
	value     model.ProductDimensions
	expiresAt time.Time
}

// DimensionResolver completes items with product dimensions. Lookups go
// through retry, a circuit breaker and a short-lived cache.
type DimensionResolver struct {
	provider      DimensionProvider
	breaker       *circuitbreaker.CircuitBreaker
	retry         circuitbreaker.RetryConfig
	ttl           time.Duration
	clock         Clock
	authoritative bool
	concurrency   int
	cache         *xsync.Map[string, cachedDimensions]
}

// DimensionOption configures a DimensionResolver.
type DimensionOption func(*DimensionResolver)

// WithDimensionBreaker sets the circuit breaker guarding provider calls.
func WithDimensionBreaker(cb *circuitbreaker.CircuitBreaker) DimensionOption {
	return func(r *DimensionResolver) {
		if cb != nil {
			r.breaker = cb
		}
	}
}

// WithDimensionRetry sets the retry policy for provider calls.
func WithDimensionRetry(cfg circuitbreaker.RetryConfig) DimensionOption {
	return func(r *DimensionResolver) {
		r.retry = cfg
	}
}

// WithDimensionCacheTTL sets how long lookups are cached.
func WithDimensionCacheTTL(ttl time.Duration) DimensionOption {
	return func(r *DimensionResolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithDimensionClock injects the time source for cache expiry.
func WithDimensionClock(clock Clock) DimensionOption {
	return func(r *DimensionResolver) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithAuthoritativeDimensions makes the provider the source of truth for every
// SKU. Caller-supplied dimensions are then only used when the provider fails.
func WithAuthoritativeDimensions(enabled bool) DimensionOption {
	return func(r *DimensionResolver) {
		r.authoritative = enabled
	}
}

// NewDimensionResolver creates a resolver. provider may be nil, in which case
// every item must carry its own dimensions.
func NewDimensionResolver(provider DimensionProvider, opts ...DimensionOption) *DimensionResolver {
	r := &DimensionResolver{
		provider:    provider,
		retry:       circuitbreaker.DefaultRetryConfig(),
		ttl:         DefaultDimensionCacheTTL,
		clock:       time.Now,
		concurrency: 8,
		cache:       xsync.NewMap[string, cachedDimensions](),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.breaker == nil {
		cfg := circuitbreaker.DefaultConfig()
		cfg.Name = dimensionDependency
		r.breaker = circuitbreaker.New(cfg)
	}
	return r
}

// Breaker exposes the provider circuit breaker for health reporting.
func (r *DimensionResolver) Breaker() *circuitbreaker.CircuitBreaker {
	return r.breaker
}

// Resolve returns a copy of items with dimensions and weight filled in.
func (r *DimensionResolver) Resolve(ctx context.Context, items []model.Item) ([]model.Item, error) {
	out := make([]model.Item, len(items))
	copy(out, items)

	var pending []int
	for i, it := range out {
		if r.authoritative || !complete(it) {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return out, nil
	}

	if r.provider == nil {
		for _, i := range pending {
			if !complete(out[i]) {
				return nil, packing.NewError(packing.CodeInvalidRequest,
					fmt.Sprintf("item %s has no dimensions and no product service is configured", out[i].SKU), nil)
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, i := range pending {
		g.Go(func() error {
			dims, err := r.lookup(gctx, out[i].SKU)
			if err != nil {
				if complete(out[i]) {
					log.Warn().Err(err).Str("sku", out[i].SKU).Msg("Product dimensions unavailable, using caller dimensions")
					return nil
				}
				return r.lookupError(out[i].SKU, err)
			}
			out[i] = merge(out[i], dims)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DimensionResolver) lookup(ctx context.Context, sku string) (model.ProductDimensions, error) {
	now := r.clock()
	if c, ok := r.cache.Load(sku); ok && now.Before(c.expiresAt) {
		return c.value, nil
	}

	dims, err := circuitbreaker.Retry(ctx, r.breaker, r.retry, func(ctx context.Context) (model.ProductDimensions, error) {
		d, err := r.provider.Lookup(ctx, sku)
		if errors.Is(err, ErrProductNotFound) {
			return d, circuitbreaker.Permanent(err)
		}
		return d, err
	})
	if err != nil {
		metrics.RecordDependencyCall(dimensionDependency, "failure")
		return model.ProductDimensions{}, err
	}
	if !dims.Dimensions.Valid() || dims.Weight <= 0 {
		return model.ProductDimensions{}, fmt.Errorf("%w: product service returned incomplete data for %s", ErrProductNotFound, sku)
	}

	metrics.RecordDependencyCall(dimensionDependency, "success")
	r.cache.Store(sku, cachedDimensions{value: dims, expiresAt: now.Add(r.ttl)})
	return dims, nil
}

func (r *DimensionResolver) lookupError(sku string, err error) error {
	if errors.Is(err, ErrProductNotFound) {
		return packing.NewError(packing.CodeInvalidRequest,
			fmt.Sprintf("item %s has no dimensions and is unknown to the product service", sku), err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return packing.NewError(packing.CodeDependencyUnavailable,
		fmt.Sprintf("product dimensions for %s unavailable", sku), err)
}

// PurgeExpired drops cache entries past their TTL.
func (r *DimensionResolver) PurgeExpired() {
	now := r.clock()
	r.cache.Range(func(sku string, c cachedDimensions) bool {
		if !now.Before(c.expiresAt) {
			r.cache.Delete(sku)
		}
		return true
	})
}

func complete(it model.Item) bool {
	return it.Dimensions.Valid() && it.Weight > 0
}

// merge overlays master data on a requested item, keeping its quantity and
// any attribute the caller set explicitly.
func merge(it model.Item, d model.ProductDimensions) model.Item {
	it.Dimensions = d.Dimensions
	it.Weight = d.Weight
	it.Fragile = it.Fragile || d.Fragile
	if it.Category == "" {
		it.Category = d.Category
	}
	return it
}
