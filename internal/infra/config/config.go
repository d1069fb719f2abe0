// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Source types
const (
	SourceTypeREST    = "rest"
	SourceTypeSpotify = "spotify"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig            `yaml:"server"`
	Site    SiteConfig              `yaml:"site"`
	Catalog CatalogConfig           `yaml:"catalog"`
	Session SessionConfig           `yaml:"session"`
	Admin   AdminConfig             `yaml:"admin"`
	Filters map[string]FilterConfig `yaml:"filters"`
	Spotify SpotifyConfig           `yaml:"spotify"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	Hooks           HooksConfig   `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// SiteConfig represents what the page header shows.
type SiteConfig struct {
	Title    string `yaml:"title" default:"Podcastr"`
	Tagline  string `yaml:"tagline" default:"O melhor podcast sobre o mundo da programação"`
	Locale   string `yaml:"locale" default:"pt_BR" validate:"oneof=pt_BR en"`
	Timezone string `yaml:"timezone" default:"America/Sao_Paulo"`
}

// CatalogConfig represents episode listing configuration.
type CatalogConfig struct {
	PageSize     int            `yaml:"page_size" default:"12" validate:"gte=1,lte=100"`
	LatestCount  int            `yaml:"latest_count" default:"2" validate:"gte=0"`
	Revalidate   time.Duration  `yaml:"revalidate" default:"24h"`
	FetchTimeout time.Duration  `yaml:"fetch_timeout" default:"10s"`
	Sources      []SourceConfig `yaml:"sources" validate:"required,min=1,dive"`
}

// SourceConfig represents a single episode source.
type SourceConfig struct {
	Type     string         `yaml:"type" validate:"required,oneof=rest spotify"`
	Name     string         `yaml:"name"`
	Settings map[string]any `yaml:"settings"`
}

// SessionConfig represents browser session configuration.
type SessionConfig struct {
	CookieName    string        `yaml:"cookie_name" default:"podcastr_session"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" default:"6h"`
	SweepInterval time.Duration `yaml:"sweep_interval" default:"1m"`
	SendTimeout   time.Duration `yaml:"send_timeout" default:"500ms"`
}

// AdminConfig represents admin-related configuration.
type AdminConfig struct {
	Token string `yaml:"token" validate:"required"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// SpotifyConfig represents Spotify API configuration.
// Credentials are required only when a spotify source is configured.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"BR"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("EPISODES_API_URL"); v != "" {
		for i := range c.Catalog.Sources {
			if c.Catalog.Sources[i].Type == SourceTypeREST {
				if c.Catalog.Sources[i].Settings == nil {
					c.Catalog.Sources[i].Settings = make(map[string]any)
				}
				c.Catalog.Sources[i].Settings["base_url"] = v
				break
			}
		}
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Catalog.LatestCount > c.Catalog.PageSize {
		return errors.Newf("latest_count (%d) must not exceed page_size (%d)", c.Catalog.LatestCount, c.Catalog.PageSize)
	}

	if c.HasSource(SourceTypeSpotify) {
		if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
			return errors.New("spotify source requires spotify.client_id and spotify.client_secret")
		}
	}

	if c.Site.Timezone != "" {
		if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
			return errors.Wrapf(err, "invalid site timezone %q", c.Site.Timezone)
		}
	}

	return nil
}

// HasSource reports whether a source of the given type is configured.
func (c *Config) HasSource(sourceType string) bool {
	for _, s := range c.Catalog.Sources {
		if s.Type == sourceType {
			return true
		}
	}
	return false
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// Location returns the site time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.Site.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
