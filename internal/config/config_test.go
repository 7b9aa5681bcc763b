package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configFileEnvVar, "")
	t.Setenv("PORT", "")
	t.Setenv("BILLING_URI", "")
	t.Setenv(shutdownSecondsEnvVar, "")
	t.Setenv(shutdownDurationEnvVar, "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("expected port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.ShutdownPeriod != defaultShutdownDelay {
		t.Fatalf("expected shutdown %s, got %s", defaultShutdownDelay, cfg.ShutdownPeriod)
	}
	if cfg.BillingURI != "" {
		t.Fatalf("expected empty billing uri, got %q", cfg.BillingURI)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "development")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadRequiresDatabaseOutsideDev(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL in production")
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte(`app_env: production
port: "9090"
database_url: postgres://file/db
billing_uri: https://billing.file
jwt_secret: from-file
rate_limit_per_minute: 30
shutdown_timeout: 5s
`)
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configFileEnvVar, path)
	t.Setenv("BILLING_URI", "https://billing.env")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv(shutdownSecondsEnvVar, "")
	t.Setenv(shutdownDurationEnvVar, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BillingURI != "https://billing.env" {
		t.Fatalf("expected env to override billing uri, got %s", cfg.BillingURI)
	}
	if cfg.JWTSecret != "from-file" {
		t.Fatalf("expected secret from file, got %s", cfg.JWTSecret)
	}
	if cfg.Port != "9090" || cfg.RateLimit != 30 {
		t.Fatalf("unexpected file values: %+v", cfg)
	}
	if cfg.ShutdownPeriod != 5*time.Second {
		t.Fatalf("expected 5s shutdown, got %s", cfg.ShutdownPeriod)
	}
}

func TestLoadInvalidShutdown(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "development")
	t.Setenv(shutdownSecondsEnvVar, "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid shutdown seconds")
	}
}
