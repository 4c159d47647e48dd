// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cartonization-service/config"
	"github.com/guttosm/cartonization-service/internal/http"
	"github.com/guttosm/cartonization-service/internal/middleware"
	"github.com/rs/zerolog/log"
)

// App is the wired application.
type App struct {
	Router   *gin.Engine
	Services *ServiceComponents
	Database *DatabaseComponents
	limiter  *middleware.RateLimiter
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	seed, err := cfg.Catalog.Cartons()
	if err != nil {
		return nil, err
	}

	db := InitializeDatabase(cfg.Database, seed)

	services, err := InitializeServices(cfg, db)
	if err != nil {
		_ = db.Close(context.Background())
		return nil, err
	}

	rc := InitializeRouter(services, db, cfg)

	return &App{
		Router:   http.NewRouter(rc.Handler, rc.HealthHandler, rc.Config),
		Services: services,
		Database: db,
		limiter:  rc.RateLimiter,
	}, nil
}

// Shutdown releases everything InitializeApp started. Call it after the HTTP
// server stopped accepting requests.
func (a *App) Shutdown(ctx context.Context) error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	err := a.Services.Shutdown(ctx)
	if cerr := a.Database.Close(ctx); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		log.Error().Err(err).Msg("Application shutdown incomplete")
		return err
	}
	log.Info().Msg("Application stopped")
	return nil
}
