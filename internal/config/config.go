// Package config loads command settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the denature command.
type Config struct {
	DataPath      string
	PlotPath      string
	ExportPath    string
	MaxIterations int
	Strict        bool
	Verbose       bool
}

// Default returns the settings used when no variables are set.
func Default() Config {
	return Config{
		DataPath:      "data.csv",
		PlotPath:      "denaturation.png",
		MaxIterations: 500,
	}
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	return LoadFrom()
}

// LoadFrom is Load with explicit dotenv files instead of .env. Missing files
// are ignored; variables already set in the environment take precedence.
func LoadFrom(files ...string) (Config, error) {
	_ = godotenv.Load(files...) // ignore missing file

	cfg := Default()

	if path := os.Getenv("DENATURE_DATA"); path != "" {
		cfg.DataPath = path
	}
	if path, ok := os.LookupEnv("DENATURE_PLOT"); ok {
		cfg.PlotPath = path
	}
	cfg.ExportPath = os.Getenv("DENATURE_EXPORT")

	if iterStr := os.Getenv("DENATURE_MAX_ITER"); iterStr != "" {
		if n, err := strconv.Atoi(iterStr); err == nil && n > 0 {
			cfg.MaxIterations = n
		} else {
			return cfg, fmt.Errorf("invalid DENATURE_MAX_ITER: %s", iterStr)
		}
	}

	var err error
	if cfg.Strict, err = boolEnv("DENATURE_STRICT"); err != nil {
		return cfg, err
	}
	if cfg.Verbose, err = boolEnv("DENATURE_VERBOSE"); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func boolEnv(key string) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, s)
	}

	return v, nil
}
