package service

import (
	"time"

	"github.com/svbk/countdown/internal/cache"
	"github.com/svbk/countdown/internal/config"
	"github.com/svbk/countdown/internal/domain/discount"
	"github.com/svbk/countdown/internal/domain/expiration"
	"github.com/svbk/countdown/internal/domain/level"
	"github.com/svbk/countdown/internal/hooks"
	"github.com/svbk/countdown/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache
	Hooks  *hooks.Hooks

	// Clock is the time source; nil means time.Now. Tests pin it.
	Clock func() time.Time

	// Repositories
	LevelRepo    level.Repository
	DiscountRepo discount.Repository

	// Expiration tiers
	DurableExpirations expiration.DurableStore
	SessionExpirations expiration.SessionStore
}

func (p ServiceParams) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}

func (p ServiceParams) hooks() *hooks.Hooks {
	if p.Hooks != nil {
		return p.Hooks
	}
	return hooks.Default()
}
