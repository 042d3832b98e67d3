package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/teamforge-backend/config"
	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/storage"
)

// loadConfig reads .env when present, parses the environment and resolves
// secrets held in Parameter Store.
func loadConfig(ctx context.Context) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	cfg, err := config.New()
	if err != nil {
		return config.Config{}, err
	}
	setupLogging(cfg)

	if cfg.SecretKeySSMParam != "" {
		client, err := config.NewSSMClient(ctx, cfg.Storage.Region)
		if err != nil {
			return config.Config{}, err
		}
		if err := config.ResolveSecrets(ctx, &cfg, client); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func gormLogLevel() logger.LogLevel {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		return logger.Info
	}
	return logger.Warn
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	gormLogger := database.NewLogger(gormLogLevel())

	log.Info().Str("dbType", cfg.DBType).Msg("Connecting to database")
	switch cfg.DBType {
	case "postgres":
		return database.OpenPostgres(cfg.DatabaseURL, cfg.DatabaseReplicaURL, gormLogger)
	case "sqlite":
		return database.OpenSQLite(cfg.DatabaseURL, gormLogger)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
}

func openStorage(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "local":
		log.Warn().Str("path", cfg.Storage.LocalPath).Msg("Using local storage")
		return storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.SecretKey, cfg.Storage.PresignTTL), nil
	default:
		return storage.NewS3Storage(ctx, cfg.Storage)
	}
}
