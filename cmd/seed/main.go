package main

import (
	"context"
	"os"

	"truckrecruit/internal/config"
	"truckrecruit/internal/db"
	"truckrecruit/internal/fixtures"
	"truckrecruit/internal/logger"
	"truckrecruit/internal/repository"
	"truckrecruit/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.AppEnv)
	log.Info("starting seed script")

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	set, err := fixtures.Default()
	if err != nil {
		log.Error("failed to parse fixtures", "error", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			log.Error("failed to read fixtures file", "path", os.Args[1], "error", err)
			os.Exit(1)
		}
		if set, err = fixtures.Parse(data); err != nil {
			log.Error("failed to parse fixtures file", "path", os.Args[1], "error", err)
			os.Exit(1)
		}
	}

	repos := repository.New(gormDB)
	// Only HashPassword is used; it needs no token infrastructure.
	authService := service.NewAuthService(repos, nil, nil, nil, nil)

	result, err := fixtures.Seed(context.Background(), repos, set, authService.HashPassword)
	if err != nil {
		log.Error("failed to seed", "error", err)
		os.Exit(1)
	}
	log.Info("seed completed", "created", result.Created, "skipped", result.Skipped)
}
