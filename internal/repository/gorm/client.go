package gorm

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/svbk/countdown/internal/config"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/logger"
)

// Client wraps the gorm database handle.
type Client struct {
	DB  *gorm.DB
	log *logger.Logger
}

// NewClient connects to Postgres and migrates the schema.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to the database").
			Mark(ierr.ErrDatabase)
	}

	if err := db.AutoMigrate(
		&levelRow{},
		&discountRow{},
		&expirationRow{},
	); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to migrate the database schema").
			Mark(ierr.ErrDatabase)
	}

	return &Client{DB: db, log: log}, nil
}
