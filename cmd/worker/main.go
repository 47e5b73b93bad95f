package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"bookgraph/internal/config"
	"bookgraph/internal/shared/utils"
	"bookgraph/pkg/container"
	"bookgraph/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment variables")
	}
	logger.Init(utils.GetEnvVariable("APP_ENV", "development"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] failed to load")
	}
	if err := requirePersistentStores(cfg); err != nil {
		log.Fatal().Err(err).Msg("[Worker] refusing to start")
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] failed to initialize")
	}
	defer c.Cleanup()

	if c.Redis == nil {
		log.Fatal().Msg("[Worker] redis is required to run the worker")
	}

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(c, handlers)
	scheduler := setupScheduler(c)

	if err := startServices(c); err != nil {
		log.Fatal().Err(err).Msg("[Startup] health check failed")
	}

	waitForShutdown(srv, scheduler)
}

// requirePersistentStores rejects the memory driver: an audit over the
// worker's own empty in-process stores would always report clean.
func requirePersistentStores(cfg *config.Config) error {
	if cfg.App.StoreDriver != config.DriverPostgres {
		return fmt.Errorf("worker needs APP_STORE_DRIVER=%s, got %q", config.DriverPostgres, cfg.App.StoreDriver)
	}
	return nil
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] gracefully stopping")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] stopped")
}
