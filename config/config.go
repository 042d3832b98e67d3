package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting. Values come from the environment,
// which main populates from .env when present.
type Config struct {
	Port                string `env:"PORT" envDefault:"8080"`
	ReadTimeoutSeconds  int    `env:"READ_TIMEOUT_SECONDS" envDefault:"60"`
	WriteTimeoutSeconds int    `env:"WRITE_TIMEOUT_SECONDS" envDefault:"60"`
	IdleTimeoutSeconds  int    `env:"IDLE_TIMEOUT_SECONDS" envDefault:"120"`

	DBType             string   `env:"DB_TYPE" envDefault:"postgres"`
	DatabaseURL        string   `env:"DATABASE_URL"`
	DatabaseReplicaURL []string `env:"DATABASE_REPLICA_URLS" envSeparator:","`

	SecretKey         string        `env:"SECRET_KEY"`
	SecretKeySSMParam string        `env:"SECRET_KEY_SSM_PARAM"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure      bool          `env:"COOKIE_SECURE" envDefault:"false"`
	AcceptedOrigins   []string      `env:"ACCEPTED_ORIGINS" envSeparator:","`

	Storage StorageConfig
	Email   EmailConfig

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

type StorageConfig struct {
	Driver          string        `env:"STORAGE_DRIVER" envDefault:"s3"`
	Region          string        `env:"AWS_REGION" envDefault:"us-east-1"`
	Bucket          string        `env:"S3_BUCKET"`
	AccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint        string        `env:"S3_ENDPOINT"`
	LocalPath       string        `env:"LOCAL_STORAGE_PATH" envDefault:"./data/uploads"`
	PresignTTL      time.Duration `env:"PRESIGN_TTL" envDefault:"1h"`
	MaxUploadMB     int64         `env:"MAX_UPLOAD_MB" envDefault:"25"`
}

type EmailConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"RESEND_FROM_EMAIL"`
}

// New parses the process environment into a Config.
func New() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.DBType = strings.ToLower(cfg.DBType)
	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)
	return cfg, nil
}

// Validate checks the settings needed to serve HTTP traffic.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.DBType {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	switch c.Storage.Driver {
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
	case "local":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

func (c Config) MaxUploadBytes() int64 {
	return c.Storage.MaxUploadMB << 20
}
