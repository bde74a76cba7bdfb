// Command migrate applies the embedded schema migrations. The API server
// never manages schema itself; run this before first start and after
// upgrades.
//
//	migrate up      apply all pending migrations
//	migrate down    roll back the most recent migration
//	migrate status  print migration state
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"

	"orb-service/cmd/api/infrastructure"
	"orb-service/internal/config"
	"orb-service/migrations"
	"orb-service/pkg/logger"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	if err := run(context.Background(), flag.Arg(0)); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func run(ctx context.Context, command string) error {
	cfg, err := config.Load(os.Getenv("APP_ENV"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		JSONFormat: cfg.Logger.JSONFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync() //nolint:errcheck

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return err
	}
	defer infrastructure.CloseDatabase(db) //nolint:errcheck

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)

	dialect := "sqlite3"
	if cfg.DB.IsPostgres() {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, sqlDB, ".")
	case "down":
		return goose.DownContext(ctx, sqlDB, ".")
	case "status":
		return goose.StatusContext(ctx, sqlDB, ".")
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status>")
	flag.PrintDefaults()
}
