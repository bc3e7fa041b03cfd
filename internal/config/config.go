package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultPath = "config/config.toml"

	FactCheckKeyEnv    = "FACTCHECK_API_KEY"
	SafeBrowsingKeyEnv = "SAFE_BROWSING_API_KEY"
)

// Duration lets TOML and YAML carry values such as "30s" or "15m".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

type ServerConfig struct {
	Port int `toml:"port" yaml:"port"`
	// RelayURL is where the pages reach the relay endpoints. Empty means this
	// process on loopback.
	RelayURL   string `toml:"relay_url" yaml:"relay_url"`
	CookieName string `toml:"cookie_name" yaml:"cookie_name"`
}

type FactCheckConfig struct {
	Endpoint    string `toml:"endpoint" yaml:"endpoint"`
	APIKey      string `toml:"api_key" yaml:"api_key"`
	Referer     string `toml:"referer" yaml:"referer"`
	DefaultLang string `toml:"default_lang" yaml:"default_lang"`
	PageSize    int    `toml:"page_size" yaml:"page_size"`
}

type SafeBrowsingConfig struct {
	Endpoint      string `toml:"endpoint" yaml:"endpoint"`
	APIKey        string `toml:"api_key" yaml:"api_key"`
	ClientID      string `toml:"client_id" yaml:"client_id"`
	ClientVersion string `toml:"client_version" yaml:"client_version"`
}

type SessionConfig struct {
	TTL             Duration `toml:"ttl" yaml:"ttl"`
	CleanupInterval Duration `toml:"cleanup_interval" yaml:"cleanup_interval"`
}

type HTTPConfig struct {
	Timeout      Duration `toml:"timeout" yaml:"timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

type Config struct {
	Server       ServerConfig       `toml:"server" yaml:"server"`
	FactCheck    FactCheckConfig    `toml:"factcheck" yaml:"factcheck"`
	SafeBrowsing SafeBrowsingConfig `toml:"safebrowsing" yaml:"safebrowsing"`
	Session      SessionConfig      `toml:"session" yaml:"session"`
	HTTP         HTTPConfig         `toml:"http" yaml:"http"`
	Logging      LoggingConfig      `toml:"logging" yaml:"logging"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       8080,
			CookieName: "factwatch_session",
		},
		FactCheck: FactCheckConfig{
			Endpoint:    "https://factchecktools.googleapis.com/v1alpha1/claims:search",
			Referer:     "http://localhost:3000/",
			DefaultLang: "th",
			PageSize:    10,
		},
		SafeBrowsing: SafeBrowsingConfig{
			Endpoint:      "https://safebrowsing.googleapis.com/v4/threatMatches:find",
			ClientID:      "factcheck-web",
			ClientVersion: "1.0.0",
		},
		Session: SessionConfig{
			TTL:             Duration{30 * time.Minute},
			CleanupInterval: Duration{10 * time.Minute},
		},
		HTTP: HTTPConfig{
			Timeout:      Duration{15 * time.Second},
			MaxBodyBytes: 10 << 20,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the TOML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(FactCheckKeyEnv); v != "" {
		c.FactCheck.APIKey = v
	}
	if v := os.Getenv(SafeBrowsingKeyEnv); v != "" {
		c.SafeBrowsing.APIKey = v
	}
	if v := os.Getenv("FACTCHECK_ENDPOINT"); v != "" {
		c.FactCheck.Endpoint = v
	}
	if v := os.Getenv("SAFE_BROWSING_ENDPOINT"); v != "" {
		c.SafeBrowsing.Endpoint = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.FactCheck.PageSize <= 0 {
		return fmt.Errorf("factcheck.page_size must be positive, got %d", c.FactCheck.PageSize)
	}
	if c.Session.TTL.Duration <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	return nil
}

// RelayBaseURL is the base URL the pages use for the relay endpoints.
func (c *Config) RelayBaseURL() string {
	if c.Server.RelayURL != "" {
		return c.Server.RelayURL
	}
	return fmt.Sprintf("http://127.0.0.1:%d", c.Server.Port)
}

// Redacted returns a copy with credentials masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.FactCheck.APIKey = mask(c.FactCheck.APIKey)
	out.SafeBrowsing.APIKey = mask(c.SafeBrowsing.APIKey)
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
