package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string
	Host        string
	Port        string
	JwtSecret   string
	AppEnv      string

	// AppURL is the public URL of the front end, used when building
	// password setup/reset links for invite emails.
	AppURL string

	GCSBucket          string
	GCSCredentialsFile string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	SMTPFallbackHost     string
	SMTPFallbackPort     int
	SMTPFallbackUsername string
	SMTPFallbackPassword string

	MaxUploadBytes int64
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded, relying on process environment: %v", err)
	}

	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		Host:                 os.Getenv("HOST"),
		Port:                 os.Getenv("PORT"),
		JwtSecret:            os.Getenv("JWT_SECRET"),
		AppEnv:               os.Getenv("APP_ENV"),
		AppURL:               os.Getenv("APP_URL"),
		GCSBucket:            os.Getenv("GCS_BUCKET"),
		GCSCredentialsFile:   os.Getenv("GCS_CREDENTIALS_FILE"),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             envInt("SMTP_PORT", 587),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             os.Getenv("SMTP_FROM"),
		SMTPFallbackHost:     os.Getenv("SMTP_FALLBACK_HOST"),
		SMTPFallbackPort:     envInt("SMTP_FALLBACK_PORT", 587),
		SMTPFallbackUsername: os.Getenv("SMTP_FALLBACK_USERNAME"),
		SMTPFallbackPassword: os.Getenv("SMTP_FALLBACK_PASSWORD"),
		MaxUploadBytes:       envInt64("MAX_UPLOAD_BYTES", 100<<20),
	}

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.AppURL == "" {
		cfg.AppURL = "http://localhost:3000"
	}
	if cfg.JwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set. This is critical for authentication.")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.GCSBucket == "" {
		log.Fatal("GCS_BUCKET is not set")
	}

	return cfg
}

// IsProduction reports whether the server should suppress debug detail in
// error responses.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warnf("Invalid integer for %s: %q, using default %d", key, raw, def)
		return def
	}
	return v
}

func envInt64(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Warnf("Invalid integer for %s: %q, using default %d", key, raw, def)
		return def
	}
	return v
}
