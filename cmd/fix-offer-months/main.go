package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kardexcare/service-api/internal/config"
	"github.com/kardexcare/service-api/internal/database"
	"github.com/kardexcare/service-api/internal/logger"
	"github.com/kardexcare/service-api/internal/repository"
	"github.com/kardexcare/service-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Repair error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	quality := service.NewQualityService(repository.NewOfferRepository(db), log)

	result, err := quality.Run(context.Background())
	if err != nil {
		return fmt.Errorf("repair run failed: %w", err)
	}

	fmt.Printf("Months repaired: %d\n", result.MonthsRepaired)
	fmt.Printf("Legacy stages collapsed: %d\n", result.StagesCollapsed)
	return nil
}
