package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Upstreams are the base URLs of the services behind the gateway.
type Upstreams struct {
	Product      string
	Checkout     string
	Order        string
	Promotion    string
	Notification string
}

type Config struct {
	Env             string
	Port            string
	AllowedOrigins  string
	UpstreamTimeout time.Duration
	PublicPerMinute int
	Upstreams       Upstreams
}

func Load() *Config {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "30s"))
	if err != nil {
		timeout = 30 * time.Second
	}
	perMinute, err := strconv.Atoi(getEnv("PUBLIC_RATE_PER_MINUTE", "300"))
	if err != nil || perMinute <= 0 {
		perMinute = 300
	}

	return &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  os.Getenv("ALLOWED_ORIGINS"),
		UpstreamTimeout: timeout,
		PublicPerMinute: perMinute,
		Upstreams: Upstreams{
			Product:      getEnv("PRODUCT_SERVICE_URL", "http://product-service:8082"),
			Checkout:     getEnv("CHECKOUT_SERVICE_URL", "http://checkout-service:8086"),
			Order:        getEnv("ORDER_SERVICE_URL", "http://order-service:8083"),
			Promotion:    getEnv("PROMOTION_SERVICE_URL", "http://promotion-service:8090"),
			Notification: getEnv("NOTIFICATION_SERVICE_URL", "http://notification-service:8091"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
