// Package app provides router configuration.
package app

import (
	"github.com/guttosm/cartonization-service/config"
	"github.com/guttosm/cartonization-service/internal/http"
	"github.com/guttosm/cartonization-service/internal/middleware"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	RateLimiter   *middleware.RateLimiter
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(services *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()
	if db.DB != nil {
		healthHandler.RegisterChecker("mongodb", http.CheckerFunc(db.DB.HealthCheck))
	}
	healthHandler.RegisterCircuitBreaker("carton_catalog", services.Catalog.Breaker())
	if db.ArchiveBreaker != nil {
		healthHandler.RegisterCircuitBreaker("solution_archive", db.ArchiveBreaker)
	}
	if services.ProductLookups {
		healthHandler.RegisterCircuitBreaker("product_service", services.Resolver.Breaker())
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}

	return &RouterComponents{
		Handler:       http.NewHandler(services.Cartonizer),
		HealthHandler: healthHandler,
		RateLimiter:   limiter,
		Config: http.RouterConfig{
			RateLimit:      cfg.Server.RateLimit,
			RateWindow:     cfg.Server.RateWindow,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSOrigins:    cfg.Server.CORSOrigins,
			SwaggerUser:    cfg.Server.SwaggerUser,
			SwaggerPass:    cfg.Server.SwaggerPass,
			Catalog:        services.Catalog,
			RateLimiter:    limiter,
		},
	}
}
