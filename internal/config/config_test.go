package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RateLimits.Global.MaxCalls != 100 || cfg.RateLimits.Global.Window != 60*time.Second {
		t.Errorf("unexpected default global budget: %+v", cfg.RateLimits.Global)
	}
	if cfg.Audit.Retention != 1000 || !cfg.Validation.Strict {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadPartialOverridesOnlyNamedFields(t *testing.T) {
	path := writeConfig(t, `
rate_limits:
  global:
    max_calls: 10
    window: 5s
  per_operation:
    update_cells:
      max_calls: 2
      window: 1s
audit:
  retention: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RateLimits.Global.MaxCalls != 10 || cfg.RateLimits.Global.Window != 5*time.Second {
		t.Errorf("unexpected global budget: %+v", cfg.RateLimits.Global)
	}
	if b := cfg.RateLimits.PerOperation["update_cells"]; b.MaxCalls != 2 {
		t.Errorf("unexpected per-op budget: %+v", b)
	}
	if cfg.Audit.Retention != 50 {
		t.Errorf("unexpected retention: %d", cfg.Audit.Retention)
	}
	// Untouched sections keep defaults.
	if !cfg.Validation.Strict || cfg.Backend.TokenEnv != "SHEETGATE_TOKEN" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "rate_limits: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRejectsNegativeBudget(t *testing.T) {
	path := writeConfig(t, `
rate_limits:
  global:
    max_calls: -1
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestTokenReadsNamedEnvVar(t *testing.T) {
	cfg := Default()
	cfg.Backend.TokenEnv = "SHEETGATE_TEST_TOKEN"

	t.Setenv("SHEETGATE_TEST_TOKEN", "secret")
	tok, err := cfg.Token()
	if err != nil || tok != "secret" {
		t.Fatalf("expected token, got %q, %v", tok, err)
	}

	t.Setenv("SHEETGATE_TEST_TOKEN", "")
	if _, err := cfg.Token(); err == nil {
		t.Fatal("expected error for unset token")
	}
}
