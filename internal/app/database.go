// Package app provides database initialization and setup.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/cartonization-service/config"
	"github.com/guttosm/cartonization-service/internal/circuitbreaker"
	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/repository"
	"github.com/rs/zerolog/log"
)

const setupTimeout = 5 * time.Second

// DatabaseComponents holds the storage behind the catalog and the solution
// archive. DB is nil when both live in memory.
type DatabaseComponents struct {
	DB             *repository.MongoDB
	Cartons        repository.CartonRepositoryInterface
	Archive        repository.SolutionRepositoryInterface
	ArchiveBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and seeds an empty catalog. When the
// database is disabled or unreachable the service runs on in-memory storage.
func InitializeDatabase(cfg config.DatabaseConfig, seed []model.Carton) *DatabaseComponents {
	if !cfg.Enabled {
		log.Info().Int("cartons", len(seed)).Msg("MongoDB disabled - using in-memory catalog and archive")
		return inMemoryDatabase(seed)
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing with in-memory catalog and archive")
		return inMemoryDatabase(seed)
	}
	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	if cfg.SolutionsTTL > 0 {
		if err := db.SetSolutionsTTL(ctx, cfg.SolutionsTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to set solutions TTL index")
		}
	}

	cartons := repository.NewCartonRepository(db)
	if err := seedCatalog(ctx, cartons, seed); err != nil {
		log.Warn().Err(err).Msg("Failed to seed carton catalog")
	}

	archiveCB := circuitbreaker.New(breakerConfig(cfg, "mongodb-solutions"))

	return &DatabaseComponents{
		DB:             db,
		Cartons:        cartons,
		Archive:        repository.NewSolutionRepositoryWithCircuitBreaker(repository.NewSolutionRepository(db), archiveCB),
		ArchiveBreaker: archiveCB,
	}
}

func inMemoryDatabase(seed []model.Carton) *DatabaseComponents {
	return &DatabaseComponents{
		Cartons: repository.NewMemoryCartonRepository(seed),
		Archive: repository.NewMemorySolutionRepository(),
	}
}

// seedCatalog stores seed only when the catalog has no cartons at all, so
// operator changes survive restarts.
func seedCatalog(ctx context.Context, repo repository.CartonRepositoryInterface, seed []model.Carton) error {
	if len(seed) == 0 {
		return nil
	}
	snap, err := repo.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	if len(snap.Cartons) > 0 {
		return nil
	}
	for _, c := range seed {
		if _, err := repo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("seed carton %s: %w", c.ID, err)
		}
	}
	log.Info().Int("cartons", len(seed)).Msg("Seeded carton catalog")
	return nil
}

func breakerConfig(cfg config.DatabaseConfig, name string) circuitbreaker.Config {
	return circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
	}
}

// Close disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}
