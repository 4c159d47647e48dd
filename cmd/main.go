// Package main is the entry point for the cartonization-service application.
//
// @title           Cartonization Service API
// @version         1.0.0
// @description     Selects shipping cartons and 3D item placements for warehouse orders.
//
//	Solutions are deterministic for a given item set and catalog version.
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/cartonization-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Packing
// @tag.description Packing solution calculation and archive
//
// @tag.name        Cartons
// @tag.description Carton catalog management
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/cartonization-service/docs" // swagger docs

	"github.com/guttosm/cartonization-service/config"
	"github.com/guttosm/cartonization-service/internal/app"
)

func main() {
	cli := kingpin.New("cartonization-service", "Carton selection and 3D packing for warehouse orders")
	configFile := cli.Flag("config", "Path to YAML configuration file").Envar("CONFIG_FILE").String()
	port := cli.Flag("port", "HTTP port exposed by the service").String()
	kingpin.MustParse(cli.Parse(os.Args[1:]))

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Application initialization failed")
	}

	server := app.NewServer(application.Router, cfg.Server.Port,
		app.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		app.OnShutdown(application.Shutdown),
	)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
