package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/svbk/countdown/internal/config"
	"github.com/svbk/countdown/internal/logger"
	gormrepo "github.com/svbk/countdown/internal/repository/gorm"
)

// Connects to Postgres and applies the schema migration, then exits.
func main() {
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("connecting to database", "host", cfg.Postgres.Host)

	if _, err := gormrepo.NewClient(cfg, logger); err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}

	logger.Infow("schema migration complete", "database", cfg.Postgres.DBName)
}
