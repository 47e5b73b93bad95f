package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"bookgraph/pkg/container"
)

// startServices runs the startup checks and exposes /health and /ready.
func startServices(c *container.Container) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for name, status := range c.HealthCheck(ctx) {
		if status == "down" {
			return fmt.Errorf("%s is down", name)
		}
		log.Info().Str("dependency", name).Str("status", status).Msg("[Startup] check passed")
	}

	go startHealthCheckServer(c)
	return nil
}

func startHealthCheckServer(c *container.Container) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "bookgraph-worker"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		services := c.HealthCheck(r.Context())
		code := http.StatusOK
		for _, s := range services {
			if s == "down" {
				code = http.StatusServiceUnavailable
			}
		}
		writeJSON(w, code, services)
	})

	addr := ":" + c.Config.Worker.HealthPort
	log.Info().Str("addr", addr).Msg("[Health] starting health check server")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("[Health] failed to start")
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
