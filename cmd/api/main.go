package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinema-wallet/config"
	busAdapter "cinema-wallet/internal/adapter/bus"
	httpHandler "cinema-wallet/internal/adapter/http/handler"
	showAdapter "cinema-wallet/internal/adapter/show"
	pgStorage "cinema-wallet/internal/adapter/storage/postgres"
	redisStorage "cinema-wallet/internal/adapter/storage/redis"
	"cinema-wallet/internal/core/ports"
	"cinema-wallet/internal/service"
	"cinema-wallet/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Cinema Wallet")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize event bus
	pubSub := busAdapter.NewGoChannel(cfg.Bus, log)
	defer pubSub.Close()

	// Initialize repositories
	eventStore := pgStorage.NewEventStore(pool)
	reservationRepo := pgStorage.NewReservationRepo(pool)
	reservationCache := redisStorage.NewReservationCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize services
	walletSvc := service.NewWalletService(eventStore, busAdapter.NewWalletPublisher(pubSub), log)
	projection := service.NewReservationProjection(reservationRepo, reservationCache, log)
	showGateway := showAdapter.NewGateway(cfg.Show, log)
	coordinator := service.NewSagaCoordinator(walletSvc, projection, showGateway, log)

	// Start saga consumers
	if err := busAdapter.ConsumeShowEvents(ctx, pubSub, coordinator.HandleShowEvent, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to subscribe to show events")
	}
	if err := busAdapter.ConsumeWalletEvents(ctx, pubSub, coordinator.HandleWalletEvent, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to subscribe to wallet events")
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		ReservationSvc: projection,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
