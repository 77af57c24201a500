package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "jobmatch")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.AppName != "jobmatch" {
		t.Fatalf("expected default app name, got %q", cfg.App.AppName)
	}
	if cfg.Database.DBPort != "5432" || cfg.Database.DBSSLMode != "disable" {
		t.Fatalf("unexpected db defaults: %+v", cfg.Database)
	}
	if cfg.Database.SlowQueryThreshold != 500*time.Millisecond {
		t.Fatalf("unexpected slow query threshold: %s", cfg.Database.SlowQueryThreshold)
	}
	if !cfg.Database.AutoMigrate {
		t.Fatalf("expected auto migrate on by default")
	}
	if cfg.JWT.AccessExpiresIn != 15*time.Minute {
		t.Fatalf("unexpected access ttl: %s", cfg.JWT.AccessExpiresIn)
	}
	if cfg.Search.DefaultLimit != 20 || cfg.Search.MaxLimit != 50 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Jobs.MaxAge() != 60*24*time.Hour {
		t.Fatalf("unexpected max age: %s", cfg.Jobs.MaxAge())
	}
	if got := cfg.Redis.Addr(); got != "localhost:6379" {
		t.Fatalf("unexpected redis addr: %s", got)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_PORT", "")
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected missing env error, got %v", err)
	}
	if !strings.Contains(err.Error(), "HTTP_PORT") || !strings.Contains(err.Error(), "JWT_ACCESS_SECRET") {
		t.Fatalf("expected both keys in error, got %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_POOL_MAX_CONNS", "many")
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "soon")

	_, err := Load()
	if !errors.Is(err, errInvalidEnv) {
		t.Fatalf("expected invalid env error, got %v", err)
	}
	if !strings.Contains(err.Error(), "DB_POOL_MAX_CONNS") {
		t.Fatalf("expected key in error, got %v", err)
	}
}

func TestLoad_SearchLimitsMustBeConsistent(t *testing.T) {
	setRequired(t)
	t.Setenv("SEARCH_DEFAULT_LIMIT", "80")
	t.Setenv("SEARCH_MAX_LIMIT", "50")

	if _, err := Load(); !errors.Is(err, errInvalidEnv) {
		t.Fatalf("expected invalid env error, got %v", err)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{DBHost: " db ", DBPort: "5433", DBUser: "u", DBPassword: "pw", DBName: "n", DBSSLMode: "require"}
	want := "host=db port=5433 user=u password=pw dbname=n sslmode=require"
	if got := c.DSN(); got != want {
		t.Fatalf("dsn mismatch:\n got %q\nwant %q", got, want)
	}
}
