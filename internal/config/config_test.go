package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.Origin != "https://ec.coleman.co.jp" {
		t.Fatalf("unexpected default origin %q", cfg.Site.Origin)
	}
	if cfg.Site.SlideMin != 1 || cfg.Site.SlideMax != 15 {
		t.Fatalf("unexpected default slide range [%d, %d]", cfg.Site.SlideMin, cfg.Site.SlideMax)
	}
	if cfg.Download.Concurrency != 10 || cfg.Download.MaxRetries != 3 {
		t.Fatalf("unexpected download defaults %+v", cfg.Download)
	}
	if cfg.Translate.SourceLang != "ja" || cfg.Translate.TargetLang != "vi" {
		t.Fatalf("unexpected language pair %+v", cfg.Translate)
	}
	if cfg.RequestTimeout() != 180*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.RequestTimeout())
	}
	if cfg.ConnectTimeout() != 30*time.Second {
		t.Fatalf("unexpected connect timeout %v", cfg.ConnectTimeout())
	}
	if cfg.PageBackoffUnit() != time.Second || cfg.PageBackoffOffset() != 100*time.Millisecond {
		t.Fatalf("unexpected page backoff shape")
	}
	if cfg.ImageBackoffIncrement() != time.Second {
		t.Fatalf("unexpected image backoff increment")
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
site:
  origin: https://staging.example.jp
  output_dir: /tmp/products
  slide_min: 1
  slide_max: 5
  warm_up: false
http:
  user_agent: custom-agent
  max_conns: 4
  max_conns_per_host: 2
  request_timeout_seconds: 60
download:
  concurrency: 3
  max_retries: 5
translate:
  source_lang: ja
  target_lang: en
logging:
  development: false
  file: run.log
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.Origin != "https://staging.example.jp" || cfg.Site.SlideMax != 5 {
		t.Fatalf("expected site overrides to apply, got %+v", cfg.Site)
	}
	if cfg.Site.WarmUp {
		t.Fatal("expected warm-up disabled")
	}
	if cfg.HTTP.UserAgent != "custom-agent" || cfg.HTTP.MaxConnsPerHost != 2 {
		t.Fatalf("expected http overrides to apply, got %+v", cfg.HTTP)
	}
	if cfg.Download.Concurrency != 3 || cfg.Download.MaxRetries != 5 {
		t.Fatalf("expected download overrides to apply, got %+v", cfg.Download)
	}
	if cfg.Translate.TargetLang != "en" {
		t.Fatalf("expected translate override, got %+v", cfg.Translate)
	}
	if cfg.Logging.Development || cfg.Logging.File != "run.log" {
		t.Fatalf("expected logging overrides, got %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	base := func() Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		return cfg
	}

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty origin", func(c *Config) { c.Site.Origin = "" }},
		{"inverted slide range", func(c *Config) { c.Site.SlideMin = 5; c.Site.SlideMax = 1 }},
		{"zero slide min", func(c *Config) { c.Site.SlideMin = 0 }},
		{"empty user agent", func(c *Config) { c.HTTP.UserAgent = "" }},
		{"zero pool", func(c *Config) { c.HTTP.MaxConns = 0 }},
		{"zero timeout", func(c *Config) { c.HTTP.RequestTimeoutSeconds = 0 }},
		{"zero concurrency", func(c *Config) { c.Download.Concurrency = 0 }},
		{"zero retries", func(c *Config) { c.Download.MaxRetries = 0 }},
		{"missing language", func(c *Config) { c.Translate.TargetLang = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate() expected error for %s", tc.name)
			}
		})
	}
}
