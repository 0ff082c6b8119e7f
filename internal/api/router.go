package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	v1 "github.com/svbk/countdown/internal/api/v1"
	"github.com/svbk/countdown/internal/config"
	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/rest/middleware"
	"github.com/svbk/countdown/web"
)

type Handlers struct {
	Level     *v1.LevelHandler
	Discount  *v1.DiscountHandler
	Countdown *v1.CountdownHandler
	Checkout  *v1.CheckoutHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger, sessionStore *sessions.CookieStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.IdentityMiddleware(sessionStore, cfg.Session.CookieName, log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Client widget assets
	router.StaticFS("/assets", http.FS(web.Assets()))

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Level routes
	levels := router.Group("/levels")
	{
		levels.POST("", handlers.Level.CreateLevel)
		levels.GET("", handlers.Level.ListLevels)
		levels.GET("/:id", handlers.Level.GetLevel)
		levels.PUT("/:id", handlers.Level.UpdateLevel)
		levels.GET("/:id/discounts", handlers.Level.ListLevelDiscounts)

		levels.POST("/:id/countdown", handlers.Countdown.TriggerCountdown)
		levels.GET("/:id/button", handlers.Countdown.RenderPayButton)
		levels.GET("/:id/expiration", handlers.Countdown.RenderExpirationLabel)
	}

	// Discount routes
	discounts := router.Group("/discounts")
	{
		discounts.POST("", handlers.Discount.CreateDiscount)
		discounts.GET("", handlers.Discount.ListDiscounts)
		discounts.GET("/:id", handlers.Discount.GetDiscount)
	}

	// Countdown payload for the client widget
	router.GET("/countdowns", handlers.Countdown.GetCountdowns)

	// Checkout
	router.POST("/checkout", handlers.Checkout.Checkout)
}
