package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment overrides
const (
	EnvAPIURL      = "COURSEDECK_API_URL"
	EnvLogLevel    = "COURSEDECK_LOG_LEVEL"
	EnvMetricsAddr = "COURSEDECK_METRICS_ADDR"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with the environment and reports which variables
// were applied.
func ApplyEnv(cfg *Config) []string {
	var applied []string
	if v, ok := os.LookupEnv(EnvAPIURL); ok && v != "" {
		cfg.API.BaseURL = v
		applied = append(applied, EnvAPIURL)
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
		applied = append(applied, EnvLogLevel)
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		cfg.Metrics.Addr = v
		applied = append(applied, EnvMetricsAddr)
	}
	return applied
}
