/*
Package config loads runtime settings for the planner binaries.

SOURCES (later wins):
  1. Defaults below
  2. ptoplanner.yaml in the working directory, or in
     $XDG_CONFIG_HOME/ptoplanner/ (~/.config/ptoplanner/ when unset),
     or the file given with --config
  3. Environment variables with the PTO_ prefix (PTO_SERVER_PORT,
     PTO_DATABASE_PATH, PTO_SCHEDULER_ENABLED, ...)
  4. Command-line flags bound by the CLI

EXAMPLE FILE:
  server:
    port: 8080
    cors_origins: ["http://localhost:5173"]
  database:
    path: ./ptoplanner.db
  clock:
    timezone: America/Chicago
  scheduler:
    enabled: true
    spec: "0 8 * * *"

SEE ALSO:
  - cmd/ptoplanner: Binds flags and calls Load
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config is the fully resolved configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Clock     ClockConfig     `mapstructure:"clock"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ClockConfig struct {
	// Timezone is an IANA name, or "Local" for the machine's zone.
	Timezone string `mapstructure:"timezone"`
}

type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"`
}

// Location resolves Clock.Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Clock.Timezone == "" || c.Clock.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Clock.Timezone)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d is out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path: is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("clock.timezone: %w", err))
	}
	if c.Scheduler.Enabled {
		if _, err := cron.ParseStandard(c.Scheduler.Spec); err != nil {
			errs = append(errs, fmt.Errorf("scheduler.spec: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Loader wraps a private viper instance so the CLI can bind flags before
// Load runs.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults and environment binding set up.
func NewLoader() *Loader {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("database.path", "ptoplanner.db")
	v.SetDefault("clock.timezone", "Local")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "0 8 * * *")

	v.SetEnvPrefix("PTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Viper exposes the underlying instance for flag binding.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Load reads the config file, if any, and returns the validated result.
// An explicit path must exist; the default search locations are optional.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("ptoplanner")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if dir, err := userConfigDir(); err == nil {
			l.v.AddConfigPath(dir)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is NewLoader().Load(path).
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// ConfigFileUsed reports which file Load read, or "".
func (l *Loader) ConfigFileUsed() string { return l.v.ConfigFileUsed() }

func userConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, "ptoplanner"), nil
}
