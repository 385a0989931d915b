package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultStravaApiUrl      = "https://www.strava.com/api/v3"
	DefaultStravaAuthUrl     = "https://www.strava.com/oauth/authorize"
	DefaultStravaTokenUrl    = "https://www.strava.com/oauth/token"
	DefaultRedirectAddr      = "127.0.0.1:42424"
	DefaultRedirectURI       = "http://localhost:42424"
	DefaultRecentWindowDays  = 30
	DefaultActivitiesPerPage = 30
	DefaultCacheSizeMB       = 10
	DefaultCacheTTLSeconds   = 5 * 60
	DefaultHttpTimeout       = 15 * time.Second
	DefaultAuthTimeout       = 5 * time.Minute
)

type Config struct {
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// prometheus endpoint, disabled when empty
	MetricsAddr string `toml:"metrics_addr"`
	// strava
	StravaApiUrl    string   `toml:"strava_api_url"`
	StravaAuthUrl   string   `toml:"strava_auth_url"`
	StravaTokenUrl  string   `toml:"strava_token_url"`
	RedirectAddr    string   `toml:"redirect_addr"`
	RedirectURI     string   `toml:"redirect_uri"`
	Scopes          []string `toml:"scopes"`
	CredentialsPath string   `toml:"credentials_path"`
	// activities
	ActivitiesPerPage int `toml:"activities_per_page"`
	CacheSizeMB       int `toml:"cache_size_mb"`
	CacheTTLSeconds   int `toml:"cache_ttl_seconds"`
	// dashboard
	RecentWindowDays int  `toml:"recent_window_days"`
	ExactPrevMonth   bool `toml:"exact_prev_month"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Load reads the TOML file at configPath and returns the section for env.
func Load(env, configPath string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(configPath, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", configPath, err)
	}
	return t.Get(env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.Get(env)
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{
		Environment: "development",
		LogLevel:    "info",
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.StravaApiUrl == "" {
		c.StravaApiUrl = DefaultStravaApiUrl
	}
	if c.StravaAuthUrl == "" {
		c.StravaAuthUrl = DefaultStravaAuthUrl
	}
	if c.StravaTokenUrl == "" {
		c.StravaTokenUrl = DefaultStravaTokenUrl
	}
	if c.RedirectAddr == "" {
		c.RedirectAddr = DefaultRedirectAddr
	}
	if c.RedirectURI == "" {
		c.RedirectURI = DefaultRedirectURI
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{"read", "activity:read_all"}
	}
	if c.ActivitiesPerPage <= 0 {
		c.ActivitiesPerPage = DefaultActivitiesPerPage
	}
	if c.CacheSizeMB <= 0 {
		c.CacheSizeMB = DefaultCacheSizeMB
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.RecentWindowDays <= 0 {
		c.RecentWindowDays = DefaultRecentWindowDays
	}
}

func (c *Config) Validate() error {
	if c.ActivitiesPerPage > 200 {
		return errors.New("activities_per_page cannot exceed 200 (strava api limit)")
	}
	if !strings.HasPrefix(c.RedirectURI, "http://") && !strings.HasPrefix(c.RedirectURI, "https://") {
		return fmt.Errorf("invalid redirect uri: %s", c.RedirectURI)
	}
	return nil
}
