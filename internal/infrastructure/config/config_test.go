package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"AGRIMART_APP_NAME":          os.Getenv("AGRIMART_APP_NAME"),
		"AGRIMART_APP_ENV":           os.Getenv("AGRIMART_APP_ENV"),
		"AGRIMART_APP_PORT":          os.Getenv("AGRIMART_APP_PORT"),
		"AGRIMART_DATABASE_HOST":     os.Getenv("AGRIMART_DATABASE_HOST"),
		"AGRIMART_DATABASE_PORT":     os.Getenv("AGRIMART_DATABASE_PORT"),
		"AGRIMART_DATABASE_USER":     os.Getenv("AGRIMART_DATABASE_USER"),
		"AGRIMART_DATABASE_PASSWORD": os.Getenv("AGRIMART_DATABASE_PASSWORD"),
		"AGRIMART_DATABASE_DBNAME":   os.Getenv("AGRIMART_DATABASE_DBNAME"),
		"AGRIMART_DATABASE_SSLMODE":  os.Getenv("AGRIMART_DATABASE_SSLMODE"),
		"AGRIMART_SHIPPING_TOKEN":    os.Getenv("AGRIMART_SHIPPING_TOKEN"),
		"AGRIMART_STORAGE_PROVIDER":  os.Getenv("AGRIMART_STORAGE_PROVIDER"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "agrimarket-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "agrimarket", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "stub", cfg.Storage.Provider)
		assert.Equal(t, "ghn", cfg.Shipping.Provider)
		assert.Equal(t, "https://api.open-meteo.com/v1", cfg.Weather.BaseURL)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("loads values from environment variables with AGRIMART prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGRIMART_APP_NAME", "test-app")
		os.Setenv("AGRIMART_APP_ENV", "testing")
		os.Setenv("AGRIMART_DATABASE_HOST", "testdb.local")
		os.Setenv("AGRIMART_DATABASE_PORT", "5433")
		os.Setenv("AGRIMART_DATABASE_PASSWORD", "testpass")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGRIMART_APP_ENV", "production")
		os.Setenv("AGRIMART_SHIPPING_TOKEN", "tok")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")

		os.Setenv("AGRIMART_DATABASE_PASSWORD", "prodpass")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode")

		os.Setenv("AGRIMART_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "agrimarket",
		SSLMode:  "disable",
	}

	dsn := d.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters in credentials must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestConfig_Validate(t *testing.T) {
	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.MaxIdleConns = 100

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Telemetry.SamplingRatio = 1.5

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}
