package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/ourtrip/internal/config"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "CORS_ORIGINS", "STORE_BACKEND", "STORE_PATH",
		"DATABASE_URL", "STORAGE_KEY", "GEOCODER_URL", "GEOCODER_LANGUAGE",
		"GEOCODER_USER_AGENT", "GEOCODER_RPS", "MAX_BODY_BYTES",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that every variable falls back to its default
// when nothing is set.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, config.BackendFile, cfg.StoreBackend)
	require.Equal(t, "data", cfg.StorePath)
	require.Equal(t, "ourtrip-trips", cfg.StorageKey)
	require.Equal(t, "https://nominatim.openstreetmap.org", cfg.GeocoderURL)
	require.Equal(t, "it", cfg.GeocoderLanguage)
	require.Equal(t, 1.0, cfg.GeocoderRPS)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	require.True(t, cfg.GeocoderEnabled())
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/ourtrip")
	t.Setenv("STORAGE_KEY", "shared-trips")
	t.Setenv("GEOCODER_URL", "http://geocoder.internal")
	t.Setenv("GEOCODER_LANGUAGE", "en")
	t.Setenv("GEOCODER_USER_AGENT", "ourtrip-staging")
	t.Setenv("GEOCODER_RPS", "0.5")
	t.Setenv("MAX_BODY_BYTES", "2048")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, config.BackendPostgres, cfg.StoreBackend)
	require.Equal(t, "postgres://user:pass@db:5432/ourtrip", cfg.DatabaseURL)
	require.Equal(t, "shared-trips", cfg.StorageKey)
	require.Equal(t, "http://geocoder.internal", cfg.GeocoderURL)
	require.Equal(t, "en", cfg.GeocoderLanguage)
	require.Equal(t, "ourtrip-staging", cfg.GeocoderUserAgent)
	require.Equal(t, 0.5, cfg.GeocoderRPS)
	require.Equal(t, int64(2048), cfg.MaxBodyBytes)
}

// TestLoad_sqliteDefaultPath verifies the sqlite backend gets a database file path.
func TestLoad_sqliteDefaultPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "sqlite")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "data/ourtrip.db", cfg.StorePath)
}

// TestLoad_postgresRequiresDatabaseURL verifies that DATABASE_URL is only
// required for the postgres backend, and that the error names it.
func TestLoad_postgresRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "DATABASE_URL")
}

// TestLoad_reportsEveryProblem verifies that all invalid values are listed
// in one error.
func TestLoad_reportsEveryProblem(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("GEOCODER_RPS", "fast")
	t.Setenv("MAX_BODY_BYTES", "1MB")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "STORE_BACKEND")
	require.ErrorContains(t, err, "GEOCODER_RPS")
	require.ErrorContains(t, err, "MAX_BODY_BYTES")
}

// TestGeocoderEnabled verifies that GEOCODER_URL=none turns geocoding off.
func TestGeocoderEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOCODER_URL", "NONE")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.False(t, cfg.GeocoderEnabled())
}

// TestLoadEnvFile verifies that a .env file fills unset variables, leaves set
// ones alone, and that a missing file is not an error.
func TestLoadEnvFile(t *testing.T) {
	const fresh = "OURTRIP_TEST_FROM_DOTENV"
	require.NoError(t, os.Unsetenv(fresh))
	t.Cleanup(func() { _ = os.Unsetenv(fresh) })
	t.Setenv("OURTRIP_TEST_ALREADY_SET", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		fresh+"=from-file\nOURTRIP_TEST_ALREADY_SET=from-file\n"), 0o600))

	require.NoError(t, config.LoadEnvFile(path))
	require.Equal(t, "from-file", os.Getenv(fresh))
	require.Equal(t, "from-env", os.Getenv("OURTRIP_TEST_ALREADY_SET"))

	require.NoError(t, config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
