package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookgraph/internal/config"
	infraCache "bookgraph/internal/infrastructure/cache"
	"bookgraph/internal/infrastructure/database"
	"bookgraph/pkg/cache"
	"bookgraph/pkg/jwt"

	authorHandler "bookgraph/internal/domains/author/handler"
	authorRepo "bookgraph/internal/domains/author/repository"
	authorService "bookgraph/internal/domains/author/service"
	bookHandler "bookgraph/internal/domains/book/handler"
	bookRepo "bookgraph/internal/domains/book/repository"
	bookService "bookgraph/internal/domains/book/service"
	"bookgraph/internal/domains/integrity"
	integrityHandler "bookgraph/internal/domains/integrity/handler"
	"bookgraph/internal/domains/inventory/gateway"
	"bookgraph/internal/domains/inventory/gateway/mock"
	"bookgraph/internal/domains/inventory/gateway/stockapi"
	"bookgraph/internal/domains/resolver"
)

// Container holds every dependency of the api and the worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	AuthorDB    *database.PostgresDB // nil with the memory driver
	BookDB      *database.PostgresDB // nil with the memory driver
	Redis       *infraCache.RedisClient
	Cache       cache.Cache // nil when Redis is disabled or unreachable
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AuthorRepo   authorRepo.RepositoryInterface
	BookRepo     bookRepo.RepositoryInterface
	StockGateway gateway.StockGateway

	// ========================================
	// SERVICE LAYER
	// ========================================
	Guard         integrity.Guard
	Auditor       *integrity.Auditor
	Resolver      *resolver.Resolver
	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	AuthorHandler    *authorHandler.AuthorHandler
	BookHandler      *bookHandler.Handler
	IntegrityHandler *integrityHandler.Handler
}

func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg)
}

// New builds the container from an already loaded config.
func New(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	log.Info().
		Str("env", cfg.App.Environment).
		Str("store_driver", cfg.App.StoreDriver).
		Msg("initializing container")

	// ========================================
	// STEP 1: STORES
	// ========================================
	if cfg.App.StoreDriver == config.DriverPostgres {
		if err := c.initDatabases(); err != nil {
			c.Cleanup()
			return nil, err
		}
	}

	// ========================================
	// STEP 2: CACHE + QUEUE CLIENT
	// ========================================
	// Redis failure is not critical for the api: cache-aside is skipped.
	c.initRedis()

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 3: REPOSITORIES
	// ========================================
	if err := c.initRepositories(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.initHandlers()

	log.Info().Msg("container initialized")
	return c, nil
}

func (c *Container) initDatabases() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.AuthorDB = database.NewPostgresDB(c.Config.AuthorDB)
	if err := c.AuthorDB.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to author store: %w", err)
	}

	c.BookDB = database.NewPostgresDB(c.Config.BookDB)
	if err := c.BookDB.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to book store: %w", err)
	}
	return nil
}

func (c *Container) initRedis() {
	if !c.Config.Redis.Enabled {
		log.Info().Msg("redis disabled, running without cache")
		return
	}

	c.Redis = infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis connection failed (non-critical), running without cache")
		_ = c.Redis.Close()
		c.Redis = nil
		return
	}

	c.Cache = infraCache.NewRedisCache(c.Redis.Client)
	c.AsynqClient = asynq.NewClient(c.RedisConnOpt())
}

// RedisConnOpt is the asynq connection shared by client, server and scheduler.
func (c *Container) RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

func (c *Container) initRepositories() error {
	if c.Config.App.StoreDriver == config.DriverPostgres {
		c.AuthorRepo = authorRepo.NewPostgresRepository(c.AuthorDB.Pool)
		c.BookRepo = bookRepo.NewPostgresRepository(c.BookDB.Pool)
	} else {
		c.AuthorRepo = authorRepo.NewMemoryRepository()
		c.BookRepo = bookRepo.NewMemoryRepository()
	}

	// No-op when c.Cache is nil
	c.AuthorRepo = authorRepo.NewCachedRepository(c.AuthorRepo, c.Cache)

	stock, err := newStockGateway(c.Config.Stock)
	if err != nil {
		return err
	}
	c.StockGateway = stock
	return nil
}

func newStockGateway(cfg config.StockConfig) (gateway.StockGateway, error) {
	if cfg.BaseURL == "" {
		log.Info().Msg("STOCK_BASE_URL not set, using in-process stock mock")
		return mock.NewMockStockGateway(cfg.LowStockThreshold), nil
	}

	client, err := stockapi.NewClient(stockapi.NewConfig(cfg.BaseURL, cfg.APIKey, cfg.Timeout, cfg.RPS))
	if err != nil {
		return nil, fmt.Errorf("failed to create stock api client: %w", err)
	}
	return client, nil
}

func (c *Container) initServices() {
	c.Guard = integrity.NewGuard(c.AuthorRepo, c.BookRepo)
	c.Auditor = integrity.NewAuditor(c.AuthorRepo, c.BookRepo, c.Config.Job.AuditPageSize)
	c.Resolver = resolver.New(c.AuthorRepo, c.BookRepo, c.StockGateway,
		resolver.WithCurrency(c.Config.App.Currency),
	)

	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.BookRepo, c.Guard)
	c.BookService = bookService.NewBookService(c.BookRepo, c.Guard, c.StockGateway,
		bookService.WithViews(c.Resolver),
	)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService, c.Resolver, c.AuthorRepo)
	c.BookHandler = bookHandler.NewHandler(c.BookService, c.Resolver, c.BookRepo)

	var enqueuer integrityHandler.Enqueuer
	if c.AsynqClient != nil {
		enqueuer = c.AsynqClient
	}
	c.IntegrityHandler = integrityHandler.NewHandler(c.Auditor, c.Cache, enqueuer)
}

// HealthCheck reports the state of every dependency; "disabled" is not a failure.
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{}

	check := func(name string, db *database.PostgresDB) {
		if db == nil {
			status[name] = "memory"
			return
		}
		if err := db.HealthCheck(ctx); err != nil {
			status[name] = "down"
			return
		}
		status[name] = "ok"
	}
	check("author_store", c.AuthorDB)
	check("book_store", c.BookDB)

	switch {
	case c.Redis == nil:
		status["redis"] = "disabled"
	case c.Redis.HealthCheck(ctx) != nil:
		status["redis"] = "down"
	default:
		status["redis"] = "ok"
	}
	return status
}

// Cleanup is safe on a partially built container.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close asynq client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
	if c.BookDB != nil {
		c.BookDB.Close()
	}
	if c.AuthorDB != nil {
		c.AuthorDB.Close()
	}
	log.Info().Msg("container cleanup completed")
}
