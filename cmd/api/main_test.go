package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	appconfig "github.com/doisellos/storefront/internal/config"
	"github.com/doisellos/storefront/internal/session"
	"github.com/doisellos/storefront/pkg/logging"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	handler, m := setupMetrics()
	if handler == nil || m == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	m.ObserveLookup("available", 0.2)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "storefront_agenda_lookups_total") {
		t.Fatalf("expected lookup counter to be exported")
	}
}

func TestSetupSessionStoreFallsBackToMemory(t *testing.T) {
	logger := logging.New("error")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := setupSessionStore(ctx, &appconfig.Config{BookingSessionTTL: time.Minute}, logger)
	if _, ok := store.(*session.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestSetupSessionStoreUsesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := logging.New("error")

	store := setupSessionStore(context.Background(), &appconfig.Config{
		RedisAddr:         mr.Addr(),
		BookingSessionTTL: time.Minute,
	}, logger)
	if _, ok := store.(*session.RedisStore); !ok {
		t.Fatalf("expected redis store, got %T", store)
	}
}
