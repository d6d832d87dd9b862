package handler

import (
	"cinema-wallet/internal/adapter/http/middleware"
	redisStore "cinema-wallet/internal/adapter/storage/redis"
	"cinema-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	ReservationSvc ports.ReservationQueries
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallet_create"), walletHandler.Create)
		wallets.POST("/:id/deposit", rl("wallet_commands"), walletHandler.Deposit)
		wallets.POST("/:id/charge", rl("wallet_commands"), walletHandler.Charge)
		wallets.POST("/:id/refund", rl("wallet_commands"), walletHandler.Refund)
		wallets.GET("/:id", rl("queries"), walletHandler.Get)
	}

	reservationHandler := NewReservationHandler(deps.ReservationSvc)
	v1.GET("/reservations/:id", rl("queries"), reservationHandler.Get)

	return r
}
