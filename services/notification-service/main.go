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
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/database"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/config"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/controllers"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/repository"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/routes"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/sender"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/services"
)

const serviceName = "notification-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Initialize("development", nil).Fatal("Config load failed", zap.Error(err))
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

	db, err := database.ConnectPostgres(cfg.Postgres, log, &models.NotificationLog{})
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}

	var emailSender sender.EmailSender
	if cfg.SMTP.Host != "" {
		smtpSender, err := sender.NewSMTPSender(cfg.SMTP)
		if err != nil {
			log.Fatal("Failed to init SMTP sender", zap.Error(err))
		}
		emailSender = smtpSender
	} else {
		log.Warn("SMTP_HOST not set, emails will only be logged")
		emailSender = sender.NewLogSender(log.Named("mail"))
	}

	notificationService, err := services.NewNotificationService(
		repository.NewGormNotificationRepository(db),
		emailSender,
		log.Named("notifications"),
	)
	if err != nil {
		log.Fatal("Failed to initialize notification service", zap.Error(err))
	}
	metricsClient := awspkg.NewMetricsClient(awsCfg)

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	if cfg.QueueURL != "" {
		consumer := awspkg.NewSQSConsumer(awspkg.NewSQSClient(awsCfg), cfg.QueueURL, log.Named("sqs"))
		go func() {
			_ = consumer.StartPolling(consumerCtx, notificationService.HandleMessage)
		}()
	} else {
		log.Warn("No SQS queue configured, order events will not be consumed")
	}

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

	routes.RegisterRoutes(r, controllers.NewNotificationController(notificationService), auth.NewVerifier(cfg.JWTSecret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Notification service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	consumerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Notification service stopped gracefully")
}
