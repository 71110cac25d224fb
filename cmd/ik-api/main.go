package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/config"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/http"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/identity"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/log"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/repository"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/service"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/db"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/telemetry"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/cmdutil"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running api application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Auth     config.Auth
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	verifier, err := identity.NewVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("error creating identity verifier: %w", err)
	}

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	inventoryService := service.NewInventoryService(
		dbClient,
		v,
		repository.NewInventoryItemRepository(dbClient),
		repository.NewOutboxMsgRepository(dbClient),
	)

	interruptChan := cmdutil.InterruptChan()

	svc := http.New(cfg.HTTP, logger, inventoryService, verifier, dbClient)
	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}
	logger.InfoContext(ctx, "http service started", slog.String("auth_mode", cfg.Auth.Mode.String()))

	<-interruptChan

	logger.InfoContext(ctx, "http service is shutting down")
	if err := cleanup(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "http service is stopped")

	return nil
}
