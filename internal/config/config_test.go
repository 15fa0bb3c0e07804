package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "PORT",
		"DB_DRIVER", "DB_CONNECTION",
		"SECRET_KEY", "SESSION_EXPIRY",
		"STORAGE_DRIVER", "UPLOAD_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "Keydrop", cfg.AppName)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, DefaultDBConnection, cfg.DBConnection)
	assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
	assert.Equal(t, 168*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, DefaultUploadDir, cfg.UploadDir)

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_NAME", "Custom")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("SESSION_EXPIRY", "30m")

	cfg := Load()

	assert.Equal(t, "Custom", cfg.AppName)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionExpiry)
}

func TestEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SESSION_EXPIRY", "not-a-duration")

	assert.Equal(t, time.Hour, envDuration("SESSION_EXPIRY", time.Hour))
}
