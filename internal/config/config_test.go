package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ebookstore_test")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("ADMIN_EMAIL", "admin@ebookstore.test")
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.GoEnv)
		assert.Equal(t, 8080, cfg.HTTPPort)
		assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
		assert.Equal(t, "skip", cfg.CategoryMissingPolicy)
		assert.Equal(t, int64(2*1024*1024), cfg.UploadMaxSize)
		assert.Equal(t, 30*time.Second, cfg.UploadTimeout)
		assert.Equal(t, 30*24*time.Hour, cfg.InactiveWindow)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)

		assert.NoError(t, cfg.Validate())
	})

	t.Run("Overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("CATEGORY_MISSING_POLICY", "reject")
		t.Setenv("UPLOAD_TIMEOUT", "5s")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.HTTPPort)
		assert.Equal(t, "reject", cfg.CategoryMissingPolicy)
		assert.Equal(t, 5*time.Second, cfg.UploadTimeout)
	})

	t.Run("MissingRequired", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DATABASE_URL", "")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("BadInteger", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("HTTP_PORT", "not-a-port")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPPort:              8080,
			JWTSecret:             "0123456789abcdef0123456789abcdef",
			AdminEmail:            "admin@ebookstore.test",
			CategoryMissingPolicy: "skip",
			UploadMaxSize:         2 * 1024 * 1024,
			LogLevel:              "info",
			LogFormat:             "json",
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("ShortJWTSecret", func(t *testing.T) {
		cfg := valid()
		cfg.JWTSecret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("BadAdminEmail", func(t *testing.T) {
		cfg := valid()
		cfg.AdminEmail = "not-an-email"
		assert.Error(t, cfg.Validate())
	})

	t.Run("UnknownPolicy", func(t *testing.T) {
		cfg := valid()
		cfg.CategoryMissingPolicy = "explode"
		assert.Error(t, cfg.Validate())
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		cfg := valid()
		cfg.LogLevel = "verbose"
		assert.Error(t, cfg.Validate())
	})
}
