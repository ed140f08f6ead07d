// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"scicalc/internal/calculator"
)

// Config holds every runtime setting of the service binaries.
type Config struct {
	Addr            string
	StorePath       string // empty keeps sessions in memory
	LogLevel        string
	ServiceName     string
	Telemetry       bool // OTLP trace and metric export
	ExportLogs      bool // tee logs into OTLP
	AngleMode       calculator.AngleMode
	ShutdownTimeout time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:        getenv("SCICALC_ADDR", ":8080"),
		StorePath:   os.Getenv("SCICALC_STORE_PATH"),
		LogLevel:    getenv("SCICALC_LOG_LEVEL", "info"),
		ServiceName: getenv("OTEL_SERVICE_NAME", "scicalc"),
	}

	var err error
	if cfg.Telemetry, err = boolEnv("SCICALC_TELEMETRY", true); err != nil {
		return Config{}, err
	}
	if cfg.ExportLogs, err = boolEnv("SCICALC_EXPORT_LOGS", false); err != nil {
		return Config{}, err
	}
	if cfg.AngleMode, err = calculator.ParseAngleMode(getenv("SCICALC_ANGLE_MODE", "DEG")); err != nil {
		return Config{}, fmt.Errorf("SCICALC_ANGLE_MODE: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(getenv("SCICALC_SHUTDOWN_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("SCICALC_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
