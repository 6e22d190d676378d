package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-car-market/internal/config"
	"github.com/MKhiriev/go-car-market/internal/handler"
	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/media"
	"github.com/MKhiriev/go-car-market/internal/server"
	"github.com/MKhiriev/go-car-market/internal/service"
	"github.com/MKhiriev/go-car-market/internal/store"
	"github.com/MKhiriev/go-car-market/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("car-market-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	db, err := store.NewConnectPostgres(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	storages := store.NewStorages(db, log)
	mediaClient := media.NewCloudinaryClient(cfg.Media, log)
	services := service.NewServices(storages, mediaClient, *cfg, log)

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	backgroundWorkers := workers.NewWorkers(
		workers.NewUploadsJanitor(cfg.Storage.Uploads, log),
	)
	backgroundWorkers.Run()

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
