package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/pricing"
)

type Config struct {
	Env               string
	Port              string
	JWTSecret         string
	RedisURL          string
	CartTTL           time.Duration
	OrderServiceURL   string
	OrderTimeout      time.Duration
	KafkaBrokers      []string
	KafkaTopic        string
	AllowedOrigins    string
	CheckoutPerMinute int
	ShippingPolicy    string
	DeliveryZonesFile string
	Rates             pricing.Rates
}

// Load reads the environment (and an optional .env file). When
// AWS_USE_SECRETS=true the JWT secret is read from Secrets Manager.
func Load() (*Config, error) {
	_ = godotenv.Load()

	rates, err := loadRates()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8086"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisURL:          getEnv("REDIS_URL", "redis://redis:6379"),
		CartTTL:           getDuration("CART_TTL", 7*24*time.Hour),
		OrderServiceURL:   getEnv("ORDER_SERVICE_URL", "http://order-service:8083"),
		OrderTimeout:      getDuration("ORDER_SERVICE_TIMEOUT", 10*time.Second),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getEnv("ORDER_PLACED_TOPIC", "order.placed"),
		AllowedOrigins:    os.Getenv("ALLOWED_ORIGINS"),
		CheckoutPerMinute: getInt("CHECKOUT_RATE_PER_MINUTE", 20),
		ShippingPolicy:    strings.ToLower(getEnv("SHIPPING_POLICY", "flat")),
		DeliveryZonesFile: os.Getenv("DELIVERY_ZONES_FILE"),
		Rates:             rates,
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			if jwt, err := sm.GetSecret(context.Background(), "checkout/JWT_SECRET"); err == nil && jwt != "" {
				cfg.JWTSecret = jwt
			} else if err != nil {
				zap.L().Warn("falling back to JWT_SECRET from env", zap.Error(err))
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ShippingPolicy != "flat" && cfg.ShippingPolicy != "zones" {
		return nil, fmt.Errorf("SHIPPING_POLICY must be flat or zones, got %q", cfg.ShippingPolicy)
	}
	return cfg, nil
}

func loadRates() (pricing.Rates, error) {
	r := pricing.DefaultRates()
	for key, dst := range map[string]*float64{
		"FREE_SHIPPING_THRESHOLD": &r.FreeShippingThreshold,
		"STANDARD_SHIPPING_FEE":   &r.StandardShippingFee,
		"TAX_RATE":                &r.TaxRate,
	} {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return r, fmt.Errorf("%s must be a non-negative number, got %q", key, raw)
		}
		*dst = v
	}
	if r.TaxRate >= 1 {
		return r, fmt.Errorf("TAX_RATE must be a fraction, got %v", r.TaxRate)
	}
	return r, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LoadZones reads DeliveryZonesFile, or returns the built-in table when unset.
func (c *Config) LoadZones() (*pricing.ZoneTable, error) {
	zones := pricing.DefaultZones()
	if c.DeliveryZonesFile != "" {
		f, err := os.Open(c.DeliveryZonesFile)
		if err != nil {
			return nil, fmt.Errorf("open delivery zones: %w", err)
		}
		defer f.Close()
		if zones, err = pricing.DecodeZones(f); err != nil {
			return nil, err
		}
	}
	return pricing.NewZoneTable(zones)
}
