package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/svbk/countdown/internal/api"
	v1 "github.com/svbk/countdown/internal/api/v1"
	"github.com/svbk/countdown/internal/cache"
	"github.com/svbk/countdown/internal/config"
	"github.com/svbk/countdown/internal/domain/discount"
	"github.com/svbk/countdown/internal/domain/expiration"
	"github.com/svbk/countdown/internal/domain/level"
	"github.com/svbk/countdown/internal/hooks"
	"github.com/svbk/countdown/internal/logger"
	gormrepo "github.com/svbk/countdown/internal/repository/gorm"
	"github.com/svbk/countdown/internal/repository/memory"
	"github.com/svbk/countdown/internal/service"
	"github.com/svbk/countdown/internal/session"
	"github.com/svbk/countdown/internal/types"
	"github.com/svbk/countdown/internal/validator"
)

// @title Countdown API
// @version 1.0
// @description Promotional discount countdown service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Initialize the shared request validator
	validator.NewValidator()

	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			provideCache,

			// Host override points
			provideHooks,

			// Sessions
			session.NewCookieStore,

			// Repositories
			provideRepositories,

			// Service layer
			provideServiceParams,
			service.NewLevelService,
			service.NewDiscountService,
			service.NewExpirationService,
			service.NewCheckoutService,
			service.NewRenderService,

			// API
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startAPIServer),
	)
	app.Run()
}

func provideCache(cfg *config.Configuration) cache.Cache {
	return cache.NewInMemoryCache(cfg.Cache.Enabled)
}

func provideHooks() *hooks.Hooks {
	return hooks.Default()
}

// provideRepositories picks the persistence backend: Postgres when
// configured, process-local maps otherwise.
func provideRepositories(cfg *config.Configuration, log *logger.Logger) (
	level.Repository,
	discount.Repository,
	expiration.DurableStore,
	error,
) {
	if cfg.Deployment.Mode == types.ModeLocal && cfg.Postgres.Host == "" {
		log.Infow("using in-memory repositories")
		return memory.NewLevelRepository(),
			memory.NewDiscountRepository(),
			memory.NewDurableExpirationStore(),
			nil
	}

	client, err := gormrepo.NewClient(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Infow("connected to postgres",
		"host", cfg.Postgres.Host,
		"database", cfg.Postgres.DBName)

	return gormrepo.NewLevelRepository(client, log),
		gormrepo.NewDiscountRepository(client, log),
		gormrepo.NewDurableExpirationStore(client, log),
		nil
}

func provideServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	c cache.Cache,
	h *hooks.Hooks,
	levelRepo level.Repository,
	discountRepo discount.Repository,
	durableExpirations expiration.DurableStore,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:             log,
		Config:             cfg,
		Cache:              c,
		Hooks:              h,
		LevelRepo:          levelRepo,
		DiscountRepo:       discountRepo,
		DurableExpirations: durableExpirations,
		SessionExpirations: session.NewExpirationStore(),
	}
}

func provideHandlers(
	log *logger.Logger,
	levelService service.LevelService,
	discountService service.DiscountService,
	expirationService service.ExpirationService,
	checkoutService service.CheckoutService,
	renderService service.RenderService,
) api.Handlers {
	return api.Handlers{
		Level:     v1.NewLevelHandler(levelService, discountService, log),
		Discount:  v1.NewDiscountHandler(discountService, log),
		Countdown: v1.NewCountdownHandler(renderService, expirationService, log),
		Checkout:  v1.NewCheckoutHandler(checkoutService, log),
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
