package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"empty api":          func(c *Config) { c.APIEndpoint = " " },
		"non-http view base": func(c *Config) { c.ViewBase = "ftp://example.org/wiki/" },
		"relative rest base": func(c *Config) { c.RESTBase = "/api/rest_v1/page" },
		"empty user agent":   func(c *Config) { c.UserAgent = "" },
		"negative attempts":  func(c *Config) { c.MaxAttempts = -1 },
		"negative timeout":   func(c *Config) { c.PageTimeout = -time.Second },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := ValidateConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadConfigFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "careerquiz.yaml")
	content := `
wiki:
  api: https://de.wikipedia.org/w/api.php
  userAgent: quiz-test/0.1
timeouts:
  page: 20s
retry:
  attempts: 5
cache:
  ttl: 30m
limits:
  candidates: 3
listen: ":9090"
verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	cfg := DefaultConfig()
	ApplyFileConfig(&cfg, fc)
	if cfg.APIEndpoint != "https://de.wikipedia.org/w/api.php" {
		t.Fatalf("APIEndpoint=%q", cfg.APIEndpoint)
	}
	if cfg.UserAgent != "quiz-test/0.1" {
		t.Fatalf("UserAgent=%q", cfg.UserAgent)
	}
	if cfg.PageTimeout != 20*time.Second || cfg.CacheTTL != 30*time.Minute {
		t.Fatalf("durations not applied: page=%v ttl=%v", cfg.PageTimeout, cfg.CacheTTL)
	}
	if cfg.MaxAttempts != 5 || cfg.MaxCandidates != 3 {
		t.Fatalf("limits not applied: attempts=%d candidates=%d", cfg.MaxAttempts, cfg.MaxCandidates)
	}
	if cfg.ListenAddr != ":9090" || !cfg.Verbose {
		t.Fatalf("listen=%q verbose=%v", cfg.ListenAddr, cfg.Verbose)
	}
	// Unset file values keep the defaults.
	if cfg.RESTBase != DefaultRESTBase || cfg.SearchTimeout != DefaultSearchTimeout {
		t.Fatalf("defaults overwritten: rest=%q search=%v", cfg.RESTBase, cfg.SearchTimeout)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "careerquiz.json")
	if err := os.WriteFile(path, []byte(`{"retry":{"delay":"250ms"},"limits":{"search":20}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	cfg := DefaultConfig()
	ApplyFileConfig(&cfg, fc)
	if cfg.RetryDelay != 250*time.Millisecond || cfg.SearchLimit != 20 {
		t.Fatalf("delay=%v search=%d", cfg.RetryDelay, cfg.SearchLimit)
	}
}

func TestLoadConfigFile_BadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "careerquiz.yml")
	if err := os.WriteFile(path, []byte("cache:\n  ttl: forever\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfigFile(path)
	if err == nil || !strings.Contains(err.Error(), "cache.ttl") {
		t.Fatalf("expected cache.ttl error, got %v", err)
	}
}

func TestApplyEnvOverrides_FromEnv(t *testing.T) {
	t.Setenv("CAREERQUIZ_API_ENDPOINT", "http://wiki.local/w/api.php")
	t.Setenv("CAREERQUIZ_MAX_ATTEMPTS", "2")
	t.Setenv("CAREERQUIZ_CACHE_TTL", "5m")
	t.Setenv("CAREERQUIZ_SEARCH_LIMIT", "not-a-number")
	t.Setenv("CAREERQUIZ_VERBOSE", "yes")

	cfg := DefaultConfig()
	cfg.APIEndpoint = "https://from-file.example/w/api.php"
	ApplyEnvOverrides(&cfg)

	if cfg.APIEndpoint != "http://wiki.local/w/api.php" {
		t.Fatalf("env should override file value, got %q", cfg.APIEndpoint)
	}
	if cfg.MaxAttempts != 2 || cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("attempts=%d ttl=%v", cfg.MaxAttempts, cfg.CacheTTL)
	}
	if cfg.SearchLimit != DefaultSearchLimit {
		t.Fatalf("unparseable value should be ignored, got %d", cfg.SearchLimit)
	}
	if !cfg.Verbose {
		t.Fatalf("CAREERQUIZ_VERBOSE=yes should enable verbose")
	}

	t.Setenv("CAREERQUIZ_VERBOSE", "off")
	ApplyEnvOverrides(&cfg)
	if cfg.Verbose {
		t.Fatalf("CAREERQUIZ_VERBOSE=off should disable verbose")
	}
}

func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("CAREERQUIZ_USER_AGENT", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("# first\nCAREERQUIZ_USER_AGENT=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("CAREERQUIZ_USER_AGENT=\"second agent\"\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, filepath.Join(dir, "missing.env"), b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("CAREERQUIZ_USER_AGENT"); got != "second agent" {
		t.Fatalf("override order failed: got %q, want %q", got, "second agent")
	}
}
