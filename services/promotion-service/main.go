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
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/config"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/controllers"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/repository"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/routes"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/promotion-service/services"
)

const serviceName = "promotion-service"

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

	db, err := database.ConnectPostgres(cfg.Postgres, log, &models.Coupon{})
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}

	var snsClient awspkg.SNSPublisher
	if cfg.PromotionSNSTopicARN != "" {
		snsClient = awspkg.NewSNSClient(awsCfg)
	}
	metricsClient := awspkg.NewMetricsClient(awsCfg)

	couponService := services.NewCouponService(
		repository.NewGormCouponRepository(db),
		snsClient,
		cfg.PromotionSNSTopicARN,
		metricsClient,
		log.Named("coupons"),
	)
	couponController := controllers.NewCouponController(couponService)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Prometheus(serviceName),
		middleware.MetricsMiddleware(metricsClient, serviceName),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.SecurityHeaders(),
		func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		},
	)

	routes.RegisterCouponRoutes(r, couponController, auth.NewVerifier(cfg.JWTSecret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Promotion Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Promotion Service stopped gracefully")
}
