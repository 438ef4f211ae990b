// Package config loads and validates application configuration from environment variables.
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

// Storage backends accepted by STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// GeocoderDisabled, as GEOCODER_URL, turns geocoding off entirely.
const GeocoderDisabled = "none"

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreBackend selects where the trip list is kept: memory, file, sqlite,
	// or postgres. Defaults to "file".
	StoreBackend string

	// StorePath is the directory (file backend) or database file (sqlite
	// backend). Defaults to "data" and "data/ourtrip.db" respectively.
	StorePath string

	// DatabaseURL is the Postgres connection string. Required only when
	// StoreBackend is postgres.
	DatabaseURL string

	// StorageKey names the slot the trip list is stored under.
	// Defaults to "ourtrip-trips".
	StorageKey string

	// GeocoderURL is the base URL of a Nominatim-compatible service, or
	// "none" to disable geocoding.
	GeocoderURL       string
	GeocoderLanguage  string
	GeocoderUserAgent string
	// GeocoderRPS caps outgoing geocoding requests per second. Defaults to 1.
	GeocoderRPS float64

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing every variable that is missing or invalid.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		StorageKey:        getEnv("STORAGE_KEY", "ourtrip-trips"),
		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderLanguage:  getEnv("GEOCODER_LANGUAGE", "it"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "ourtrip/1.0"),
	}

	var problems []string

	switch cfg.StoreBackend {
	case BackendMemory, BackendPostgres:
	case BackendFile:
		cfg.StorePath = getEnv("STORE_PATH", "data")
	case BackendSQLite:
		cfg.StorePath = getEnv("STORE_PATH", "data/ourtrip.db")
	default:
		problems = append(problems, fmt.Sprintf("STORE_BACKEND: unknown backend %q", cfg.StoreBackend))
	}
	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL: required when STORE_BACKEND=postgres")
	}

	rps, err := strconv.ParseFloat(getEnv("GEOCODER_RPS", "1"), 64)
	if err != nil || rps < 0 {
		problems = append(problems, "GEOCODER_RPS: must be a non-negative number")
	}
	cfg.GeocoderRPS = rps

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil {
		problems = append(problems, "MAX_BODY_BYTES: must be an integer")
	}
	cfg.MaxBodyBytes = maxBody

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// GeocoderEnabled reports whether a geocoding service is configured.
func (c Config) GeocoderEnabled() bool {
	return c.GeocoderURL != "" && !strings.EqualFold(c.GeocoderURL, GeocoderDisabled)
}

// LoadEnvFile loads variables from a .env file into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config.LoadEnvFile: %w", err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
