// Package config loads server settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds server settings
type Config struct {
	Port                string
	StorageType         string
	RedisURL            string
	InactivityThreshold time.Duration
	SweepInterval       time.Duration
	GameRetention       time.Duration
	LogLevel            slog.Level
}

// Default returns the settings used when nothing is set
func Default() Config {
	return Config{
		Port:                "8080",
		StorageType:         StorageMemory,
		InactivityThreshold: 20 * time.Second,
		SweepInterval:       5 * time.Second,
		GameRetention:       time.Hour,
		LogLevel:            slog.LevelInfo,
	}
}

// Load reads .env (if any) and then the process environment
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function, applying defaults for unset
// variables
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	if v, ok := lookup("PORT"); ok && v != "" {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			errs = append(errs, fmt.Errorf("PORT: %q is not a valid port", v))
		} else {
			cfg.Port = v
		}
	}

	if v, ok := lookup("STORAGE_TYPE"); ok && v != "" {
		cfg.StorageType = strings.ToLower(v)
	}
	switch cfg.StorageType {
	case StorageMemory:
	case StorageRedis:
		cfg.RedisURL, _ = lookup("REDIS_URL")
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORAGE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE: must be %q or %q, got %q", StorageMemory, StorageRedis, cfg.StorageType))
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"INACTIVITY_THRESHOLD", &cfg.InactivityThreshold},
		{"SWEEP_INTERVAL", &cfg.SweepInterval},
		{"GAME_RETENTION", &cfg.GameRetention},
	}
	for _, d := range durations {
		v, ok := lookup(d.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			errs = append(errs, fmt.Errorf("%s: %q is not a positive duration", d.name, v))
			continue
		}
		*d.dst = parsed
	}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for Port
func (c Config) Addr() string {
	return ":" + c.Port
}
