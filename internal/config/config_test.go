package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_DRIVER", "DB_URL", "SESSION_SECRET", "SESSION_TTL", "SESSION_STORE",
		"COOKIE_SECURE", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT", "RATE_BURST",
		"LOG_LEVEL", "LOG_PRETTY", "IMAGE_BUCKET", "IMAGE_URL_TTL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBDriver != "mysql" || cfg.DBUrl == "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.Session.Store != "sql" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:5500" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimit != 10 || cfg.RateBurst != 20 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimit, cfg.RateBurst)
	}
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_URL", "file:rent.db")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9000" || cfg.DBDriver != "sqlite" || cfg.DBUrl != "file:rent.db" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Session.TTL != 2*time.Hour || cfg.Session.Store != "memory" || !cfg.Session.CookieSecure {
		t.Fatalf("session env not applied: %+v", cfg.Session)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins not split: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"unknown session store", "SESSION_STORE", "redis"},
		{"bad ttl", "SESSION_TTL", "tomorrow"},
		{"negative ttl", "SESSION_TTL", "-1h"},
		{"bad burst", "RATE_BURST", "many"},
		{"bad bool", "COOKIE_SECURE", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestConfigString_MasksSecret(t *testing.T) {
	cfg := Config{Session: SessionConfig{Secret: "top-secret"}}
	if s := cfg.String(); s == "" || strings.Contains(s, "top-secret") {
		t.Fatalf("secret leaked: %s", s)
	}
}
