// Package config loads the site server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-chi/jwtauth"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/site-content-types/pkg/cms"
	"golang.org/x/text/language"
)

// Config is the server configuration.
//
//	PORT            - Server port (default: "8080")
//	ENVIRONMENT     - Runtime environment (default: "development")
//	HOST_VERSION    - Reported host version; gates menu icons (default: "6.4.2")
//	PLUGIN_DIR      - Directory catalog paths resolve against (default: ".")
//	LOCALE          - BCP 47 locale labels are translated to (default: "en")
//	POSTS_PER_PAGE  - Listing size before per-type overrides (default: 10)
//	FRONT_BASE      - Path prefix of front-end archives (default: "")
//	DATABASE_URL    - "postgres://..." or empty/"memory" for in-memory
//	JWT_SECRET      - HS256 secret; admin routes are disabled when empty
//	LOG_LEVEL       - debug, info, warn or error (default: "info")
type Config struct {
	Port         string `env:"PORT" env-default:"8080"`
	Environment  string `env:"ENVIRONMENT" env-default:"development"`
	HostVersion  string `env:"HOST_VERSION" env-default:"6.4.2"`
	PluginDir    string `env:"PLUGIN_DIR" env-default:"."`
	Locale       string `env:"LOCALE" env-default:"en"`
	PostsPerPage int    `env:"POSTS_PER_PAGE" env-default:"10"`
	FrontBase    string `env:"FRONT_BASE"`
	DatabaseURL  string `env:"DATABASE_URL"`
	JWTSecret    string `env:"JWT_SECRET"`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.PostsPerPage <= 0 {
		return fmt.Errorf("posts per page must be positive, got %d", c.PostsPerPage)
	}
	if _, err := c.LocaleTag(); err != nil {
		return err
	}
	if c.DatabaseType() == "" {
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", c.DatabaseURL)
	}
	return nil
}

// DatabaseType returns "memory", "postgres", or "" for an unsupported URL.
func (c *Config) DatabaseType() string {
	switch {
	case c.DatabaseURL == "" || c.DatabaseURL == "memory":
		return "memory"
	case strings.HasPrefix(c.DatabaseURL, "postgresql://"), strings.HasPrefix(c.DatabaseURL, "postgres://"):
		return "postgres"
	}
	return ""
}

// LocaleTag parses Locale, accepting both "it-IT" and "it_IT".
func (c *Config) LocaleTag() (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(c.Locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// HostOptions translates the configuration into cms host options.
func (c *Config) HostOptions(logger *slog.Logger) ([]cms.Option, error) {
	tag, err := c.LocaleTag()
	if err != nil {
		return nil, err
	}

	opts := []cms.Option{
		cms.WithVersion(c.HostVersion),
		cms.WithPluginDir(c.PluginDir),
		cms.WithLocale(tag),
		cms.WithFrontBase(c.FrontBase),
		cms.WithPostsPerPage(c.PostsPerPage),
		cms.WithLogger(logger),
	}
	if c.JWTSecret != "" {
		opts = append(opts, cms.WithJWTAuth(jwtauth.New("HS256", []byte(c.JWTSecret), nil)))
	}
	return opts, nil
}
