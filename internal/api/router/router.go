package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/doisellos/storefront/internal/http/handlers"
	httpmiddleware "github.com/doisellos/storefront/internal/http/middleware"
	"github.com/doisellos/storefront/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Booking            *handlers.BookingHandler
	AgendaRelay        *handlers.AgendaRelayHandler
	Storefront         *handlers.StorefrontHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimiter guards the booking and relay endpoints (optional)
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Storefront != nil {
		r.Get("/products/buy", cfg.Storefront.Buy)
		r.Post("/contact", cfg.Storefront.Contact)
		r.Get("/gallery/{count}/{index}/{action}", cfg.Storefront.Gallery)
	}

	r.Group(func(limited chi.Router) {
		if cfg.RateLimiter != nil {
			limited.Use(cfg.RateLimiter.Middleware)
		}
		if cfg.AgendaRelay != nil {
			limited.Method(http.MethodGet, "/api/agenda", cfg.AgendaRelay)
		}
		if cfg.Booking != nil {
			limited.Mount("/booking/sessions", cfg.Booking.Routes())
		}
	})

	return r
}
