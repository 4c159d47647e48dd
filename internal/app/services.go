// Package app provides service initialization.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/cartonization-service/config"
	"github.com/guttosm/cartonization-service/internal/circuitbreaker"
	"github.com/guttosm/cartonization-service/internal/events"
	"github.com/guttosm/cartonization-service/internal/service"
	"github.com/rs/zerolog/log"
)

const dimensionPurgeInterval = time.Minute

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Cache      *service.ShardedCache
	Catalog    *service.CatalogService
	Watcher    *service.CatalogWatcher
	Resolver   *service.DimensionResolver
	Cartonizer *service.CartonizationService
	Publisher  events.Publisher
	// ProductLookups is set when a product service is configured.
	ProductLookups bool
}

// InitializeServices wires the catalog, the dimension resolver and the
// cartonization service on top of db, and starts the catalog watcher.
func InitializeServices(cfg config.Config, db *DatabaseComponents) (*ServiceComponents, error) {
	solutionCache := service.NewShardedCache(cfg.Cache.Size, cfg.Cache.TTL, cfg.Cache.Shards)

	catalog := service.NewCatalogService(db.Cartons, solutionCache,
		service.WithCatalogBreaker(circuitbreaker.New(breakerConfig(cfg.Database, "carton-catalog"))))

	var provider service.DimensionProvider
	if cfg.Products.BaseURL != "" {
		provider = service.NewProductClient(cfg.Products.BaseURL, cfg.Products.Timeout)
	}
	resolver := service.NewDimensionResolver(provider,
		service.WithDimensionCacheTTL(cfg.Products.CacheTTL),
		service.WithAuthoritativeDimensions(cfg.Products.Authoritative))

	publisher := newPublisher(cfg.Kafka)

	cartonizer := service.NewCartonizationService(catalog, solutionCache,
		service.WithResolver(resolver),
		service.WithArchive(db.Archive),
		service.WithPublisher(publisher),
		service.WithBudgets(cfg.Packing.ComputationBudget, cfg.Packing.FallbackBudget),
		service.WithDimensionalDivisor(cfg.Packing.DimensionalDivisor),
		service.WithMaxUnits(cfg.Packing.MaxUnits),
	)

	watcher := service.NewCatalogWatcher(catalog, cfg.Catalog.WatchSchedule)
	watcher.Every(dimensionPurgeInterval, resolver.PurgeExpired)
	if err := watcher.Start(); err != nil {
		solutionCache.Stop()
		_ = publisher.Close()
		return nil, fmt.Errorf("start catalog watcher: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()
	if snap, err := catalog.Snapshot(ctx); err != nil {
		log.Warn().Err(err).Msg("Carton catalog not loaded at startup")
	} else {
		log.Info().
			Int64("catalog_version", snap.Version).
			Int("active_cartons", len(snap.Active())).
			Msg("Carton catalog loaded")
	}

	return &ServiceComponents{
		Cache:          solutionCache,
		Catalog:        catalog,
		Watcher:        watcher,
		Resolver:       resolver,
		Cartonizer:     cartonizer,
		Publisher:      publisher,
		ProductLookups: provider != nil,
	}, nil
}

func newPublisher(cfg config.KafkaConfig) events.Publisher {
	if !cfg.Enabled {
		return events.LogPublisher{}
	}
	kafkaCfg := events.DefaultKafkaConfig()
	kafkaCfg.Brokers = cfg.Brokers
	kafkaCfg.Topic = cfg.Topic
	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Publishing packing events to Kafka")
	return events.NewKafkaPublisher(kafkaCfg)
}

// Shutdown stops background work, waits for pending archive and publish
// calls and closes the publisher.
func (s *ServiceComponents) Shutdown(ctx context.Context) error {
	s.Watcher.Stop()
	err := s.Cartonizer.Shutdown(ctx)
	if cerr := s.Publisher.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close publisher: %w", cerr))
	}
	s.Cache.Stop()
	return err
}
