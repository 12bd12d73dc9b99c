package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18085")
	t.Setenv("API_BASE_URL", "https://lms.example.test/api/v1")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "test-issuer")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6380")
	t.Setenv("PERMISSION_CACHE_TTL_SECONDS", "30")
	t.Setenv("PROXY_UPSTREAM", "127.0.0.1:4000")

	cfg := Load()
	if cfg.HTTPAddr != ":18085" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.APIBaseURL != "https://lms.example.test/api/v1" {
		t.Fatalf("expected API_BASE_URL override, got %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Fatalf("expected API_TIMEOUT 3s, got %s", cfg.APITimeout)
	}
	if cfg.JWTSecret != "test-secret" || cfg.JWTIssuer != "test-issuer" {
		t.Fatalf("expected jwt overrides, got %s/%s", cfg.JWTSecret, cfg.JWTIssuer)
	}
	if cfg.RedisAddr != "127.0.0.1:6380" {
		t.Fatalf("expected REDIS_ADDR override, got %s", cfg.RedisAddr)
	}
	if cfg.PermissionCacheTTL != 30*time.Second {
		t.Fatalf("expected PERMISSION_CACHE_TTL 30s, got %s", cfg.PermissionCacheTTL)
	}
	if cfg.ProxyUpstream != "127.0.0.1:4000" {
		t.Fatalf("expected PROXY_UPSTREAM override, got %s", cfg.ProxyUpstream)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("API_TIMEOUT", "")
	t.Setenv("API_TIMEOUT_SECONDS", "")

	cfg := Load()
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("expected default base url, got %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 0 {
		t.Fatalf("expected no api timeout by default, got %s", cfg.APITimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PORTAL_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PORTAL_DOTENV_PROBE", "")
	os.Unsetenv("PORTAL_DOTENV_PROBE")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("PORTAL_DOTENV_PROBE"); got != "loaded" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}
