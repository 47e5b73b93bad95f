package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bookgraph/internal/infrastructure/database"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	defaultJWTSecret = "your-secret-key-change-in-production"
)

// Config is populated from environment variables.
type Config struct {
	App      AppConfig
	AuthorDB *database.DBConfig
	BookDB   *database.DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Stock    StockConfig
	Job      JobConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	StoreDriver string // postgres, memory
	Currency    string // price prefix in views
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AdminTokenTTL time.Duration
}

// StockConfig selects the inventory gateway. Empty BaseURL uses the in-process mock.
type StockConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RPS               int
	LowStockThreshold int
}

type JobConfig struct {
	AuditCron     string
	AuditPageSize int
}

type WorkerConfig struct {
	Concurrency int
	HealthPort  string
}

func Load() (*Config, error) {
	authorDB, err := LoadDatabaseConfig("AUTHOR_DB", "authors")
	if err != nil {
		return nil, err
	}
	bookDB, err := LoadDatabaseConfig("BOOK_DB", "books")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "bookgraph"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			StoreDriver: strings.ToLower(getEnv("APP_STORE_DRIVER", DriverPostgres)),
			Currency:    getEnv("APP_CURRENCY", "$"),
		},
		AuthorDB: authorDB,
		BookDB:   bookDB,
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", defaultJWTSecret),
			AdminTokenTTL: getEnvDuration("JWT_ADMIN_TTL", 24*time.Hour),
		},
		Stock: StockConfig{
			BaseURL:           getEnv("STOCK_BASE_URL", ""),
			APIKey:            getEnv("STOCK_API_KEY", ""),
			Timeout:           getEnvDuration("STOCK_TIMEOUT", 3*time.Second),
			RPS:               getEnvInt("STOCK_RPS", 20),
			LowStockThreshold: getEnvInt("STOCK_LOW_THRESHOLD", 5),
		},
		Job: JobConfig{
			AuditCron:     getEnv("JOB_AUDIT_CRON", "0 3 * * *"),
			AuditPageSize: getEnvInt("JOB_AUDIT_PAGE_SIZE", 500),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 5),
			HealthPort:  getEnv("WORKER_HEALTH_PORT", "9999"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.App.StoreDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("APP_STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.App.StoreDriver)
	}

	if c.Job.AuditPageSize <= 0 {
		return fmt.Errorf("JOB_AUDIT_PAGE_SIZE must be positive")
	}
	if c.Stock.Timeout <= 0 {
		return fmt.Errorf("STOCK_TIMEOUT must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.App.StoreDriver == DriverPostgres {
			if c.AuthorDB.Password == "" {
				return fmt.Errorf("AUTHOR_DB_PASSWORD must be set in production")
			}
			if c.BookDB.Password == "" {
				return fmt.Errorf("BOOK_DB_PASSWORD must be set in production")
			}
		}
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
