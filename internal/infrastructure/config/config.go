package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Console   ConsoleConfig   `toml:"console"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string   `envconfig:"PORT" default:"8000" toml:"port"`
	Host         string   `envconfig:"HOST" default:"0.0.0.0" toml:"host"`
	// AllowOrigins lists the browser origins allowed to call the API.
	AllowOrigins []string `envconfig:"CORS_ORIGINS" default:"*" toml:"allow_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// ConsoleConfig holds the virtual terminal defaults.
type ConsoleConfig struct {
	User        string   `envconfig:"CONSOLE_USER" default:"devops-user" toml:"user"`
	Hostname    string   `envconfig:"CONSOLE_HOSTNAME" default:"devops-ide" toml:"hostname"`
	Home        string   `envconfig:"CONSOLE_HOME" default:"/home/user" toml:"home"`
	ToolLatency Duration `envconfig:"CONSOLE_TOOL_LATENCY" default:"1s" toml:"tool_latency"`
	Scrollback  int      `envconfig:"CONSOLE_SCROLLBACK" default:"262144" toml:"scrollback"`
	Welcome     bool     `envconfig:"CONSOLE_WELCOME" default:"true" toml:"welcome"`
}

// Duration is a time.Duration that decodes from strings such as "1500ms"
// in both environment variables and TOML files.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads environment configuration and then overlays the keys
// present in the TOML file at path.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := Overlay(cfg, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay decodes TOML data on top of cfg. Keys absent from data keep
// their current values.
func Overlay(cfg *Config, data []byte) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8000",
			Host:         "0.0.0.0",
			AllowOrigins: []string{"*"},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Console: ConsoleConfig{
			User:        "devops-user",
			Hostname:    "devops-ide",
			Home:        "/home/user",
			ToolLatency: Duration(time.Second),
			Scrollback:  256 * 1024,
			Welcome:     true,
		},
	}
}
