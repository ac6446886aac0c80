package config

import (
	"os"
	"testing"
)

func unsetBuildEnv() {
	_ = os.Unsetenv("INKWELL_BUILD_TARGET")
	_ = os.Unsetenv("INKWELL_DB_DRIVER")
	_ = os.Unsetenv("INKWELL_CACHE_DRIVER")
}

func TestResolveDefaultsCloud(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("INKWELL_BUILD_TARGET", "cloud")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("unexpected mapping: %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsLocal(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("INKWELL_BUILD_TARGET", "local")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("unexpected mapping for local: %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsOverride(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("INKWELL_BUILD_TARGET", "local")
	_ = os.Setenv("INKWELL_DB_DRIVER", "postgres")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("override failed, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsRejectsUnknownTarget(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("INKWELL_BUILD_TARGET", "edge")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatalf("expected error for unknown build target")
	}
}

func TestResolveDefaultsRejectsUnknownCacheDriver(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("INKWELL_CACHE_DRIVER", "memcached")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatalf("expected error for unknown cache driver")
	}
}

func TestConfigLoad_WebhookSecretEnvOverride(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("INKWELL_WEBHOOK_SECRET", "s3cret")
	defer func() { _ = os.Unsetenv("INKWELL_WEBHOOK_SECRET") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.WebhookSecret != "s3cret" {
		t.Fatalf("webhook secret env override failed, got %q", cfg.WebhookSecret)
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := NewForTesting()
	if !cfg.IsTesting() || cfg.IsProduction() {
		t.Fatalf("NewForTesting environment: %s", cfg.Environment)
	}

	cfg.Environment = EnvProduction
	if !cfg.IsProduction() || cfg.IsTesting() {
		t.Fatalf("production environment: %s", cfg.Environment)
	}
}

func TestConfigLoad_SummaryRecentLimitDefault(t *testing.T) {
	unsetBuildEnv()
	_ = os.Unsetenv("INKWELL_SUMMARY_RECENT_LIMIT")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.SummaryRecentLimit != 5 {
		t.Fatalf("unexpected default recent limit: %d", cfg.SummaryRecentLimit)
	}
}
