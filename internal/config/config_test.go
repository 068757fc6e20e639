package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "AGENDA_BASE_URL", "AGENDA_TIMEOUT", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "BOOKING_TIMEZONE"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.AgendaBaseURL != "http://ice-club.my" {
		t.Fatalf("expected default agenda base url, got %s", cfg.AgendaBaseURL)
	}
	if cfg.AgendaPath != "/get_agenda.php" {
		t.Fatalf("expected default agenda path, got %s", cfg.AgendaPath)
	}
	if cfg.AgendaTimeout != 0 {
		t.Fatalf("expected no agenda timeout by default, got %s", cfg.AgendaTimeout)
	}
	if cfg.BookingSessionTTL != 30*time.Minute {
		t.Fatalf("expected default session ttl, got %s", cfg.BookingSessionTTL)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Location().String() != "America/Sao_Paulo" && cfg.Location() != time.UTC {
		t.Fatalf("unexpected location %s", cfg.Location())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AGENDA_BASE_URL", "https://agenda.example.com/")
	t.Setenv("AGENDA_TIMEOUT", "3s")
	t.Setenv("BOOKING_SESSION_TTL", "5m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("WHATSAPP_NUMBER", "5511999999999")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.AgendaBaseURL != "https://agenda.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.AgendaBaseURL)
	}
	if cfg.AgendaTimeout != 3*time.Second {
		t.Fatalf("expected agenda timeout override, got %s", cfg.AgendaTimeout)
	}
	if cfg.BookingSessionTTL != 5*time.Minute {
		t.Fatalf("expected ttl override, got %s", cfg.BookingSessionTTL)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 7 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.WhatsAppNumber != "5511999999999" {
		t.Fatalf("expected whatsapp override, got %s", cfg.WhatsAppNumber)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{BookingTimezone: "Not/AZone"}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", cfg.Location())
	}
	var nilCfg *Config
	if nilCfg.Location() != time.UTC {
		t.Fatalf("expected UTC for nil config")
	}
}
