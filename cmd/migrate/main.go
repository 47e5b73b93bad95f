// Command migrate applies the goose migrations of one or both stores.
//
//	go run ./cmd/migrate -store all -command up
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"bookgraph/internal/config"
	"bookgraph/internal/infrastructure/database"
	"bookgraph/internal/shared/utils"
	"bookgraph/migrations"
	"bookgraph/pkg/logger"
)

type target struct {
	db  *database.DBConfig
	fs  fs.FS
	dir string
}

func main() {
	command := flag.String("command", "up", "Migration command: up, down, status")
	store := flag.String("store", "all", "Store to migrate: authors, books, all")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(utils.GetEnvVariable("APP_ENV", "development"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	targets, err := selectTargets(cfg, *store)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid store")
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("failed to set dialect")
	}

	for _, t := range targets {
		if err := run(t, *command); err != nil {
			log.Error().Err(err).Str("store", t.db.Name).Msg("migration failed")
			os.Exit(1)
		}
		log.Info().Str("store", t.db.Name).Str("command", *command).Msg("migration done")
	}
}

func selectTargets(cfg *config.Config, store string) ([]target, error) {
	authors := target{db: cfg.AuthorDB, fs: migrations.Authors, dir: "authors"}
	books := target{db: cfg.BookDB, fs: migrations.Books, dir: "books"}

	switch store {
	case "authors":
		return []target{authors}, nil
	case "books":
		return []target{books}, nil
	case "all":
		return []target{authors, books}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", store)
	}
}

func run(t target, command string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pg := database.NewPostgresDB(t.db)
	if err := pg.Connect(ctx); err != nil {
		return err
	}
	defer pg.Close()

	db := stdlib.OpenDBFromPool(pg.Pool)
	defer db.Close()

	goose.SetBaseFS(t.fs)
	defer goose.SetBaseFS(nil)

	switch command {
	case "up":
		return goose.UpContext(ctx, db, t.dir)
	case "down":
		return goose.DownContext(ctx, db, t.dir)
	case "status":
		return goose.StatusContext(ctx, db, t.dir)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
