package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"go.uber.org/zap"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT (or the S3
// specific AWS_S3_ENDPOINT) is set every client is pointed at that URL, which
// is how the services run against LocalStack in docker-compose. Static keys
// from the environment are only pinned in that local mode.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, loadOptions()...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = getEnvDefault("AWS_REGION", "ap-south-1")
	}

	endpoint := LocalEndpoint()
	if endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
		zap.L().Debug("aws custom endpoint configured",
			zap.String("endpoint", endpoint),
			zap.String("region", cfg.Region),
		)
	}

	return cfg, nil
}

func loadOptions() []func(*config.LoadOptions) error {
	key, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if LocalEndpoint() == "" || key == "" || secret == "" {
		return nil
	}
	return []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, os.Getenv("AWS_SESSION_TOKEN"))),
	}
}

// LocalEndpoint returns the endpoint override, if any.
func LocalEndpoint() string {
	if v := os.Getenv("AWS_S3_ENDPOINT"); v != "" {
		return v
	}
	return os.Getenv("AWS_ENDPOINT")
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
