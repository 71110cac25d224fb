package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/config"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/log"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/db"
)

func main() {
	time.Local = time.UTC

	app := &cli.App{
		Name:  "ik-migrate",
		Usage: "Manage the inventory keeper database schema",
		Commands: []*cli.Command{
			migrateCommand(db.MigrateUp, "Apply all pending migrations"),
			migrateCommand(db.MigrateDown, "Roll back the most recent migration"),
			migrateCommand(db.MigrateStatus, "Print the status of every migration"),
		},
		DefaultCommand: db.MigrateUp,
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func migrateCommand(name, usage string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			return migrate(c.Context, name)
		},
	}
}

func migrate(ctx context.Context, command string) error {
	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	logger.InfoContext(ctx, "running database migration", "command", command)

	if err := db.Migrate(ctx, pgxPool, command); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	logger.InfoContext(ctx, "database migration completed successfully", "command", command)

	return nil
}
