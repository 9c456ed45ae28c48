package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("Port = %q, want 8080", cfg.Port)
		}
		if cfg.AccessTTL != 30*time.Minute {
			t.Errorf("AccessTTL = %v, want 30m", cfg.AccessTTL)
		}
		if cfg.RefreshTTL != 7*24*time.Hour {
			t.Errorf("RefreshTTL = %v, want 168h", cfg.RefreshTTL)
		}
		if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
			t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
		}
		if cfg.HTTPAddress() != ":8080" {
			t.Errorf("HTTPAddress = %q", cfg.HTTPAddress())
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		if _, err := Load(); err == nil {
			t.Fatal("expected an error without JWT_SECRET")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PORT", "9090")
		t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "15")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Port != "9090" {
			t.Errorf("Port = %q", cfg.Port)
		}
		if cfg.AccessTTL != 15*time.Minute {
			t.Errorf("AccessTTL = %v", cfg.AccessTTL)
		}
		want := []string{"https://a.example", "https://b.example"}
		if !reflect.DeepEqual(cfg.CORSOrigins, want) {
			t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
		}
	})

	t.Run("garbage ttl falls back", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "not-a-number")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.AccessTTL != 30*time.Minute {
			t.Errorf("AccessTTL = %v, want the default", cfg.AccessTTL)
		}
	})
}
