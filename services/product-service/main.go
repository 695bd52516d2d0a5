package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/config"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/controllers"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/database"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/repository"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/routes"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/services"
)

const serviceName = "product-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Initialize("development", nil).Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

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

	rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	productRepo := repository.NewDynamoAdapter(dynamodb.NewFromConfig(awsCfg), cfg.ProductsTable)
	store := awspkg.NewObjectStore(awspkg.NewS3Client(awsCfg), cfg.S3Bucket, cfg.AWSRegion, cfg.ImageBaseURL)
	metricsClient := awspkg.NewMetricsClient(awsCfg)

	catalogService := services.NewCatalogService(productRepo, log.Named("catalog"))
	importer := services.NewBulkImporter(
		services.NewS3ImageUploader(store, cfg.S3Prefix),
		catalogService,
		metricsClient,
		log.Named("bulk-import"),
	)
	importJobs := services.NewImportJobs(repository.NewRedisJobStore(rdb), importer, cfg.BulkStorageDir, log.Named("bulk-worker"))
	if cfg.RunWorker {
		go importJobs.Run(ctx)
	}

	validator := controllers.NewRequestValidator()
	cache := controllers.NewCacheManager(rdb)
	productController := controllers.NewProductController(catalogService, cache, validator)
	bulkHandler := controllers.NewBulkImportHandler(importer, importJobs, cache, validator)

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

	routes.RegisterRoutes(r, productController, bulkHandler, auth.NewVerifier(cfg.JWTSecret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Product Service starting", zap.String("port", cfg.Port), zap.Bool("worker", cfg.RunWorker))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down Product Service...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}
	log.Info("Product Service stopped gracefully")
}
