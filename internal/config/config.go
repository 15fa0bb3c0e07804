package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Defaults that are convenient for local development but unsafe in production.
// Load flags each insecure one with a warning; the default secret is a hard
// error when APP_ENV=production.
const (
	DefaultSecretKey    = "default_secret_key"
	DefaultDBConnection = "./data/keydrop.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	DefaultUploadDir    = "uploads"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	SecretKey     string
	SessionExpiry time.Duration

	// Uploads
	StorageDriver string // "local" or "s3"
	UploadDir     string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string // Optional: for S3-compatible services
	S3PresignExpiry time.Duration

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Keydrop"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", DefaultDBConnection),

		// Security
		SecretKey:     envString("SECRET_KEY", DefaultSecretKey),
		SessionExpiry: envDuration("SESSION_EXPIRY", 168*time.Hour), // 7 days

		// Uploads
		StorageDriver: envString("STORAGE_DRIVER", "local"),
		UploadDir:     envString("UPLOAD_DIR", DefaultUploadDir),

		// Storage (only used when STORAGE_DRIVER=s3)
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.SecretKey == DefaultSecretKey {
		slog.Warn("SECRET_KEY is the built-in default; sessions are forgeable, do not use in production")
	}

	// Production: refuse insecure configuration
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures no insecure development default survives into a
// production deployment. Development keeps the defaults for easy local testing.
func validateProduction(cfg *Config) {
	if cfg.SecretKey == DefaultSecretKey {
		slog.Error("production deployment requires a real SECRET_KEY",
			"hint", "set APP_ENV=development for local testing with the default secret")
		os.Exit(1)
	}
	if cfg.StorageDriver == "s3" && (cfg.S3Region == "" || cfg.S3Bucket == "") {
		slog.Error("STORAGE_DRIVER=s3 requires S3_REGION and S3_BUCKET")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
