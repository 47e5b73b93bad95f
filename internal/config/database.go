package config

import (
	"fmt"
	"strconv"
	"time"

	"bookgraph/internal/infrastructure/database"
)

// LoadDatabaseConfig reads <prefix>_HOST, <prefix>_PORT, ... for one store.
// name is both the log label and the default database name.
func LoadDatabaseConfig(prefix, name string) (*database.DBConfig, error) {
	env := func(key, def string) string { return getEnv(prefix+"_"+key, def) }

	port, err := strconv.Atoi(env("PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s_PORT: %w", prefix, err)
	}

	maxConns, err := strconv.Atoi(env("MAX_CONNECTIONS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s_MAX_CONNECTIONS: %w", prefix, err)
	}

	minConns, err := strconv.Atoi(env("MIN_CONNECTIONS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s_MIN_CONNECTIONS: %w", prefix, err)
	}

	maxRetries, err := strconv.Atoi(env("MAX_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s_MAX_RETRIES: %w", prefix, err)
	}

	maxConnLifetime, err := envDuration(prefix, "MAX_CONN_LIFETIME", "5m")
	if err != nil {
		return nil, err
	}

	maxConnIdleTime, err := envDuration(prefix, "MAX_CONN_IDLE_TIME", "1m")
	if err != nil {
		return nil, err
	}

	healthCheckPeriod, err := envDuration(prefix, "HEALTH_CHECK_PERIOD", "1m")
	if err != nil {
		return nil, err
	}

	retryDelay, err := envDuration(prefix, "RETRY_DELAY", "1s")
	if err != nil {
		return nil, err
	}

	connectTimeout, err := envDuration(prefix, "CONNECT_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	return &database.DBConfig{
		Name:              name,
		Host:              env("HOST", "localhost"),
		Port:              port,
		Username:          env("USER", "bookgraph"),
		Password:          env("PASSWORD", ""),
		DBName:            env("NAME", name),
		SSLMode:           env("SSLMODE", "disable"),
		MaxConns:          int32(maxConns),
		MinConns:          int32(minConns),
		MaxConnLifetime:   maxConnLifetime,
		MaxConnIdleTime:   maxConnIdleTime,
		HealthCheckPeriod: healthCheckPeriod,
		MaxRetries:        maxRetries,
		RetryDelay:        retryDelay,
		ConnectTimeout:    connectTimeout,
	}, nil
}

func envDuration(prefix, key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(prefix+"_"+key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s_%s: %w", prefix, key, err)
	}
	return d, nil
}
