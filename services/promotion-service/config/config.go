package config

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/database"
)

// Config holds all configuration for the promotion service.
type Config struct {
	Env                  string
	Port                 string
	JWTSecret            string
	Postgres             database.PostgresConfig
	PromotionSNSTopicARN string
	AllowedOrigins       string
}

// Load reads configuration from environment variables with optional
// Secrets Manager override.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8090"),
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
		PromotionSNSTopicARN: os.Getenv("PROMOTION_SNS_TOPIC_ARN"),
		AllowedOrigins:       os.Getenv("ALLOWED_ORIGINS"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			targets := map[string]*string{
				"POSTGRES_USER":     &cfg.Postgres.User,
				"POSTGRES_PASSWORD": &cfg.Postgres.Password,
				"POSTGRES_DB":       &cfg.Postgres.DB,
				"POSTGRES_HOST":     &cfg.Postgres.Host,
				"POSTGRES_PORT":     &cfg.Postgres.Port,
			}
			if err := sm.ApplyJSONSecret(context.Background(), "promotion/DB_CREDENTIALS", targets); err != nil {
				zap.L().Warn("falling back to database credentials from env", zap.Error(err))
			}
			if jwt, err := sm.GetSecret(context.Background(), "promotion/JWT_SECRET"); err == nil && jwt != "" {
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
