package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable overrides
const (
	EnvAddr     = "MENUD_ADDR"
	EnvDriver   = "MENUD_DB_DRIVER"
	EnvDBPath   = "MENUD_DB_PATH"
	EnvDSN      = "MENUD_DB_DSN"
	EnvResetDB  = "MENUD_RESET_DB"
	EnvSections = "MENUD_SECTIONS"
	EnvAMQPURL  = "MENUD_AMQP_URL"
	EnvLogLevel = "MENUD_LOG_LEVEL"
)

// LoadDotEnv loads variables from the given .env files (default ./.env).
// Missing files are ignored; variables already set in the process win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from MENUD_* environment variables
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv(EnvDriver); ok && v != "" {
		c.Database.Driver = v
	}
	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := os.LookupEnv(EnvDSN); ok && v != "" {
		c.Database.DSN = v
	}
	if v, ok := os.LookupEnv(EnvResetDB); ok && v != "" {
		reset, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvResetDB, err)
		}
		c.Database.ResetOnStart = reset
	}
	if v, ok := os.LookupEnv(EnvSections); ok && v != "" {
		var sections []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sections = append(sections, s)
			}
		}
		c.Menu.Sections = sections
	}
	if v, ok := os.LookupEnv(EnvAMQPURL); ok && v != "" {
		c.Events.AMQPURL = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}
