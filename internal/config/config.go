// Package config reads server settings from .env, the environment and flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level settings.
type Config struct {
	Addr           string // Listen address for the HTTP server
	DatabaseDriver string // "sqlite3" or "pgx"
	DatabaseURL    string // File path for sqlite3, connection string for pgx
	PublicURL      string // Base URL encoded in the join QR code; empty means use the request host
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:           ":8080",
		DatabaseDriver: "sqlite3",
		DatabaseURL:    "./lostcities.db",
	}
}

// Load reads envFile (if present), then the environment, then parses args.
func Load(name string, args []string, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	fromEnv(&cfg.Addr, "LOSTCITIES_ADDR")
	fromEnv(&cfg.DatabaseDriver, "LOSTCITIES_DB_DRIVER")
	fromEnv(&cfg.DatabaseURL, "LOSTCITIES_DB_URL")
	fromEnv(&cfg.PublicURL, "LOSTCITIES_PUBLIC_URL")

	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.RegisterFlags(fset)
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// RegisterFlags binds the fields to flags, using current values as defaults.
func (c *Config) RegisterFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fset.StringVar(&c.DatabaseDriver, "db-driver", c.DatabaseDriver, "database driver: sqlite3 or pgx")
	fset.StringVar(&c.DatabaseURL, "db-url", c.DatabaseURL, "sqlite file path or postgres connection string")
	fset.StringVar(&c.PublicURL, "public-url", c.PublicURL, "base URL shown in the join QR code")
}

// Validate checks the driver name.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite3", "pgx":
		return nil
	}
	return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
}

func fromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
