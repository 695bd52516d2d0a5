package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
)

// Config holds all environment variables for the product-service.
type Config struct {
	Env            string
	Port           string
	JWTSecret      string
	RedisURL       string
	AWSRegion      string
	ProductsTable  string
	S3Bucket       string
	S3Prefix       string
	ImageBaseURL   string
	BulkStorageDir string
	AllowedOrigins string
	RunWorker      bool
}

// Load reads the environment (and an optional .env file). If
// AWS_USE_SECRETS=true the JWT secret is read from Secrets Manager, falling
// back to the env var on failure.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8082"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisURL:       getEnv("REDIS_URL", "redis://redis:6379"),
		AWSRegion:      getEnv("AWS_REGION", "ap-south-1"),
		ProductsTable:  getEnv("DDB_TABLE_PRODUCTS", "Products"),
		S3Bucket:       getEnv("AWS_S3_BUCKET", "mishtan-catalog"),
		S3Prefix:       getEnv("AWS_S3_PREFIX", "products/"),
		BulkStorageDir: getEnv("BULK_STORAGE_DIR", "./data/bulk_imports"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		RunWorker:      getEnv("BULK_IMPORT_WORKER", "true") == "true",
	}
	cfg.ImageBaseURL = imageBaseURL(cfg.S3Bucket)

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			if jwt, err := sm.GetSecret(context.Background(), "product/JWT_SECRET"); err == nil && jwt != "" {
				cfg.JWTSecret = jwt
			} else if err != nil {
				zap.L().Warn("falling back to JWT_SECRET from env", zap.Error(err))
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// imageBaseURL prefers a CloudFront domain, then a local S3 endpoint. Empty
// means the regional S3 URL.
func imageBaseURL(bucket string) string {
	if domain := strings.TrimSpace(os.Getenv("AWS_CLOUDFRONT_DOMAIN")); domain != "" {
		if !strings.HasPrefix(domain, "http") {
			domain = "https://" + domain
		}
		return strings.TrimSuffix(domain, "/")
	}
	if endpoint := awspkg.LocalEndpoint(); endpoint != "" {
		return strings.TrimSuffix(endpoint, "/") + "/" + bucket
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
