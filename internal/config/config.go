// Package config provides configuration management for menud.
//
// Configuration comes from three layers, later layers winning:
//  1. Built-in defaults (DefaultConfig)
//  2. A YAML config file, if one is found
//  3. Environment variables, optionally loaded from a .env file
//
// Config file locations (priority order):
//  1. $MENUD_CONFIG
//  2. ./menud.yaml
//  3. $XDG_CONFIG_HOME/menud/config.yaml
//  4. ~/.config/menud/config.yaml
//  5. /etc/menud/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr     = ":5000"
	DefaultDBPath   = "./database.db"
	DefaultExchange = "menu.events"
	DefaultLogLevel = "info"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   DefaultDBPath,
		},
		Menu: MenuConfig{
			Sections: []string{"Lunch", "Dinner"},
		},
		Events: EventsConfig{
			Exchange: DefaultExchange,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = defaults.Server.IdleTimeout
	}
	if c.Database.Driver == "" {
		c.Database.Driver = defaults.Database.Driver
	}
	if c.Database.Path == "" {
		c.Database.Path = defaults.Database.Path
	}
	if len(c.Menu.Sections) == 0 {
		c.Menu.Sections = defaults.Menu.Sections
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = defaults.Events.Exchange
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Validate checks for settings the server cannot start with
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be 'sqlite' or 'postgres'", c.Database.Driver))
	}

	if len(c.Menu.Sections) == 0 {
		errs = append(errs, errors.New("menu.sections must not be empty"))
	}
	seen := make(map[string]bool, len(c.Menu.Sections))
	for _, s := range c.Menu.Sections {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, errors.New("menu.sections contains a blank name"))
			continue
		}
		if seen[s] {
			errs = append(errs, fmt.Errorf("menu.sections lists %q twice", s))
		}
		seen[s] = true
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	return errors.Join(errs...)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	store := c.Database.Path
	if c.Database.Driver == "postgres" {
		store = "postgres"
	}

	summary := fmt.Sprintf("Listen: %s, Store: %s (%s)", c.Server.Addr, store, c.Database.Driver)
	if c.Database.ResetOnStart {
		summary += " [reset on start]"
	}
	summary += fmt.Sprintf("\nSections: %s", strings.Join(c.Menu.Sections, ", "))
	if c.Events.AMQPURL != "" {
		summary += fmt.Sprintf("\nEvents: amqp exchange %s", c.Events.Exchange)
	}
	return summary
}
