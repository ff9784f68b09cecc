// Package config loads and validates application configuration via
// Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob of a download run, loaded via Viper from
// file, environment, or defaults. Components receive the values they
// need explicitly; nothing reads ambient global state.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Download  DownloadConfig  `mapstructure:"download"`
	Translate TranslateConfig `mapstructure:"translate"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SiteConfig describes the upstream origin and page structure bounds.
type SiteConfig struct {
	Origin    string `mapstructure:"origin"`
	OutputDir string `mapstructure:"output_dir"`
	SlideMin  int    `mapstructure:"slide_min"`
	SlideMax  int    `mapstructure:"slide_max"`
	WarmUp    bool   `mapstructure:"warm_up"`
}

// HTTPConfig tunes the shared client and its connection pool.
type HTTPConfig struct {
	UserAgent             string `mapstructure:"user_agent"`
	MaxConns              int    `mapstructure:"max_conns"`
	MaxConnsPerHost       int    `mapstructure:"max_conns_per_host"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	IdleConnSeconds       int    `mapstructure:"idle_conn_seconds"`
}

// DownloadConfig governs retries, backoff shapes, and the run-wide
// image download concurrency cap.
type DownloadConfig struct {
	Concurrency      int `mapstructure:"concurrency"`
	MaxRetries       int `mapstructure:"max_retries"`
	PageBackoffMs    int `mapstructure:"page_backoff_ms"`
	PageOffsetMs     int `mapstructure:"page_offset_ms"`
	ImageIncrementMs int `mapstructure:"image_increment_ms"`
}

// TranslateConfig selects the translation language pair.
type TranslateConfig struct {
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`
}

// LoggingConfig toggles zap development features and the audit file.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("IMAGECOLEMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.origin", "https://ec.coleman.co.jp")
	v.SetDefault("site.output_dir", ".")
	v.SetDefault("site.slide_min", 1)
	v.SetDefault("site.slide_max", 15)
	v.SetDefault("site.warm_up", true)
	v.SetDefault("http.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("http.max_conns", 20)
	v.SetDefault("http.max_conns_per_host", 10)
	v.SetDefault("http.connect_timeout_seconds", 30)
	v.SetDefault("http.request_timeout_seconds", 180)
	v.SetDefault("http.idle_conn_seconds", 300)
	v.SetDefault("download.concurrency", 10)
	v.SetDefault("download.max_retries", 3)
	v.SetDefault("download.page_backoff_ms", 1000)
	v.SetDefault("download.page_offset_ms", 100)
	v.SetDefault("download.image_increment_ms", 1000)
	v.SetDefault("translate.source_lang", "ja")
	v.SetDefault("translate.target_lang", "vi")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.file", "download.log")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Site.Origin == "" {
		return fmt.Errorf("site.origin must be set")
	}
	if c.Site.SlideMin <= 0 || c.Site.SlideMax < c.Site.SlideMin {
		return fmt.Errorf("site slide range [%d, %d] is invalid", c.Site.SlideMin, c.Site.SlideMax)
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent must be set")
	}
	if c.HTTP.MaxConns <= 0 || c.HTTP.MaxConnsPerHost <= 0 {
		return fmt.Errorf("http connection pool sizes must be > 0")
	}
	if c.HTTP.ConnectTimeoutSeconds <= 0 || c.HTTP.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("http timeouts must be > 0")
	}
	if c.Download.Concurrency <= 0 {
		return fmt.Errorf("download.concurrency must be > 0")
	}
	if c.Download.MaxRetries <= 0 {
		return fmt.Errorf("download.max_retries must be > 0")
	}
	if c.Translate.SourceLang == "" || c.Translate.TargetLang == "" {
		return fmt.Errorf("translate language pair must be set")
	}
	return nil
}

// RequestTimeout returns the total per-request timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.RequestTimeoutSeconds) * time.Second
}

// ConnectTimeout returns the per-connect timeout.
func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.HTTP.ConnectTimeoutSeconds) * time.Second
}

// IdleConnTTL returns how long pooled connections may idle.
func (c Config) IdleConnTTL() time.Duration {
	return time.Duration(c.HTTP.IdleConnSeconds) * time.Second
}

// PageBackoffUnit returns the exponential backoff unit for page
// fetches.
func (c Config) PageBackoffUnit() time.Duration {
	return time.Duration(c.Download.PageBackoffMs) * time.Millisecond
}

// PageBackoffOffset returns the fixed offset added to each page
// backoff delay.
func (c Config) PageBackoffOffset() time.Duration {
	return time.Duration(c.Download.PageOffsetMs) * time.Millisecond
}

// ImageBackoffIncrement returns the linear backoff increment for image
// downloads.
func (c Config) ImageBackoffIncrement() time.Duration {
	return time.Duration(c.Download.ImageIncrementMs) * time.Millisecond
}
