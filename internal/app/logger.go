// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/cartonization-service/config"
	"github.com/guttosm/cartonization-service/internal/logger"
)

// InitializeLogger initializes the JSON logger.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}
