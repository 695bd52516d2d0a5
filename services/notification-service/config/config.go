package config

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/database"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/sender"
)

type Config struct {
	Env            string
	Port           string
	JWTSecret      string
	Postgres       database.PostgresConfig
	QueueURL       string
	SMTP           sender.SMTPConfig
	AllowedOrigins string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	queueURL := os.Getenv("SQS_QUEUE_URL")
	if queueURL == "" {
		queueURL = os.Getenv("NOTIFICATION_SQS_QUEUE_URL")
	}

	cfg := &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8091"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		},
		QueueURL: queueURL,
		SMTP: sender.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			db := map[string]*string{
				"POSTGRES_USER":     &cfg.Postgres.User,
				"POSTGRES_PASSWORD": &cfg.Postgres.Password,
				"POSTGRES_DB":       &cfg.Postgres.DB,
				"POSTGRES_HOST":     &cfg.Postgres.Host,
				"POSTGRES_PORT":     &cfg.Postgres.Port,
			}
			if err := sm.ApplyJSONSecret(context.Background(), "notification/DB_CREDENTIALS", db); err != nil {
				zap.L().Warn("falling back to database credentials from env", zap.Error(err))
			}
			smtp := map[string]*string{
				"SMTP_HOST": &cfg.SMTP.Host,
				"SMTP_PORT": &cfg.SMTP.Port,
				"SMTP_USER": &cfg.SMTP.Username,
				"SMTP_PASS": &cfg.SMTP.Password,
			}
			if err := sm.ApplyJSONSecret(context.Background(), "notification/SMTP_CREDENTIALS", smtp); err != nil {
				zap.L().Warn("falling back to SMTP settings from env", zap.Error(err))
			}
			if jwt, err := sm.GetSecret(context.Background(), "notification/JWT_SECRET"); err == nil && jwt != "" {
				cfg.JWTSecret = jwt
			}
		}
	}

	if cfg.Postgres.User == "" || cfg.Postgres.Password == "" || cfg.Postgres.DB == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
