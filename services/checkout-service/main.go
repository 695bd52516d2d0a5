package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/clients"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/config"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/controllers"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/database"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/kafka"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/routes"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/services"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
)

const serviceName = "checkout-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Initialize("development", nil).Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		logger.Initialize(cfg.Env, nil).Fatal("Failed to load AWS config", zap.Error(err))
	}

	var sink *awspkg.CloudWatchLogsClient
	if cw, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, serviceName); err == nil && cw.IsEnabled() {
		sink = cw
	}
	var log *zap.Logger
	if sink != nil {
		log = logger.Initialize(cfg.Env, sink)
	} else {
		log = logger.Initialize(cfg.Env, nil)
	}
	defer log.Sync()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cartRepo := database.NewCartRepository(redisClient, cfg.CartTTL)

	orderClient := clients.NewOrderClient(cfg.OrderServiceURL, cfg.OrderTimeout, log.Named("order-client"))

	var publisher services.EventPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log.Named("kafka"))
		publisher = producer
	} else {
		log.Warn("KAFKA_BROKERS not set, order_placed events disabled")
	}

	zones, err := cfg.LoadZones()
	if err != nil {
		log.Fatal("Failed to load delivery zones", zap.Error(err))
	}

	metricsClient := awspkg.NewMetricsClient(awsCfg)
	checkoutService := services.NewCheckoutService(cartRepo, orderClient, publisher, metricsClient, services.Options{
		Rates:          cfg.Rates,
		ShippingPolicy: cfg.ShippingPolicy,
		Zones:          zones,
	}, log.Named("checkout"))
	checkoutController := controllers.NewCheckoutController(checkoutService)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Prometheus(serviceName),
		middleware.MetricsMiddleware(metricsClient, serviceName),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.SecurityHeaders(),
	)
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, checkoutController, auth.NewVerifier(cfg.JWTSecret), cfg.CheckoutPerMinute)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "OK",
			"shipping_policy": cfg.ShippingPolicy,
			"order_circuit":   orderClient.State(),
		})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Checkout Service starting", zap.String("port", cfg.Port), zap.String("shipping_policy", cfg.ShippingPolicy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Checkout Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("Failed to close Kafka producer", zap.Error(err))
		}
	}
	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}
	log.Info("Checkout Service stopped gracefully")
}
