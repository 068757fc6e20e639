package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doisellos/storefront/internal/agenda"
	"github.com/doisellos/storefront/internal/api/router"
	"github.com/doisellos/storefront/internal/booking"
	appconfig "github.com/doisellos/storefront/internal/config"
	"github.com/doisellos/storefront/internal/http/handlers"
	httpmiddleware "github.com/doisellos/storefront/internal/http/middleware"
	"github.com/doisellos/storefront/internal/observability/metrics"
	"github.com/doisellos/storefront/internal/session"
	"github.com/doisellos/storefront/internal/storefront"
	"github.com/doisellos/storefront/pkg/logging"
)

const sweepInterval = time.Minute

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting storefront API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsHandler, bookingMetrics := setupMetrics()
	store := setupSessionStore(ctx, cfg, logger)

	fetcher := agenda.NewHTTPFetcher(cfg.AgendaBaseURL, logger.Component("agenda"),
		agenda.WithPath(cfg.AgendaPath),
		agenda.WithTimeout(cfg.AgendaTimeout),
	)
	client := agenda.NewClient(fetcher, bookingMetrics, logger.Component("agenda"))
	svc := booking.NewService(store, client, logger.Component("booking"),
		booking.WithLocation(cfg.Location()),
		booking.WithObserver(bookingMetrics),
	)

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunEvictor(ctx)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		Booking:            handlers.NewBookingHandler(svc, logger),
		AgendaRelay:        handlers.NewAgendaRelayHandler(fetcher, bookingMetrics, logger),
		Storefront:         handlers.NewStorefrontHandler(storefront.NewCatalog(nil, cfg.WhatsAppNumber), cfg.WhatsAppNumber, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.BookingMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewBookingMetrics(reg)
}

// setupSessionStore prefers Redis and falls back to the in-process store when
// REDIS_ADDR is unset or unreachable.
func setupSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) booking.Store {
	client := session.NewRedisClient(ctx, session.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		TLS:      cfg.RedisTLS,
	}, logger, true)
	if client != nil {
		logger.Info("booking sessions stored in redis", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client, cfg.BookingSessionTTL)
	}
	logger.Info("booking sessions stored in memory")
	store := session.NewMemoryStore(cfg.BookingSessionTTL)
	go store.RunSweeper(ctx, sweepInterval)
	return store
}
