package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doisellos/storefront/internal/agenda"
	"github.com/doisellos/storefront/internal/booking"
	"github.com/doisellos/storefront/internal/http/handlers"
	httpmiddleware "github.com/doisellos/storefront/internal/http/middleware"
	"github.com/doisellos/storefront/internal/observability/metrics"
	"github.com/doisellos/storefront/internal/session"
	"github.com/doisellos/storefront/pkg/logging"
)

type fixedFetcher struct{}

func (fixedFetcher) Fetch(context.Context, agenda.Query) (*agenda.Payload, error) {
	return &agenda.Payload{Barbeiro: "joao", Data: "2025-03-20", Horarios: []string{"09:00"}}, nil
}

func newTestRouter(t *testing.T, limiter *httpmiddleware.RateLimiter) http.Handler {
	t.Helper()

	logger := logging.Default()
	reg := prometheus.NewRegistry()
	m := metrics.NewBookingMetrics(reg)
	client := agenda.NewClient(fixedFetcher{}, m, logger)
	svc := booking.NewService(session.NewMemoryStore(time.Hour), client, logger, booking.WithObserver(m))

	cfg := &Config{
		Logger:             logger,
		Booking:            handlers.NewBookingHandler(svc, logger),
		AgendaRelay:        handlers.NewAgendaRelayHandler(fixedFetcher{}, m, logger),
		Storefront:         handlers.NewStorefrontHandler(nil, "5562981906158", logger),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://doisellos.com.br"},
		RateLimiter:        limiter,
	}

	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterAgendaRelayAndMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/agenda?barbeiro=joao&data=2025-03-20", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("relay status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"horarios":["09:00"]`) {
		t.Fatalf("unexpected relay body %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), `storefront_agenda_relay_requests_total{status="ok"} 1`) {
		t.Fatalf("relay metric missing:\n%s", rr.Body.String())
	}
}

func TestRouterBookingSessionLifecycle(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/booking/sessions", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/booking/sessions/"+created.ID+"/display", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("display status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "agenda-result--info") {
		t.Fatalf("unexpected display %s", rr.Body.String())
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/agenda", nil)
	req.Header.Set("Origin", "https://doisellos.com.br")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://doisellos.com.br" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestRouterRateLimitsRelay(t *testing.T) {
	router := newTestRouter(t, httpmiddleware.NewRateLimiter(1, 1))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/agenda?barbeiro=joao&data=2025-03-20", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes %v", codes)
	}
}
