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
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/config"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/controllers"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/database"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/repository"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/routes"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/order-service/services"
)

const serviceName = "order-service"

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

	var log *zap.Logger
	if cw, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, serviceName); err == nil && cw.IsEnabled() {
		log = logger.Initialize(cfg.Env, cw)
	} else {
		log = logger.Initialize(cfg.Env, nil)
	}
	defer log.Sync()

	db, err := database.ConnectPostgres(cfg.Postgres, log, &models.Order{}, &models.OrderItem{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	var publisher awspkg.SNSPublisher
	if cfg.OrderTopicArn != "" {
		publisher = awspkg.NewSNSClient(awsCfg)
	} else {
		log.Info("ORDER_SNS_TOPIC_ARN not set, order events disabled")
	}
	metricsClient := awspkg.NewMetricsClient(awsCfg)

	orderService := services.NewOrderService(
		repository.NewGormOrderRepository(db),
		publisher,
		cfg.OrderTopicArn,
		metricsClient,
		log.Named("orders"),
	)
	orderController := controllers.NewOrderController(orderService)

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

	routes.RegisterOrderRoutes(r, orderController, auth.NewVerifier(cfg.JWTSecret))

	r.GET("/health", func(c *gin.Context) {
		status := "OK"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "DEGRADED"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Order Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Order Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	log.Info("Order Service stopped gracefully")
}
