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

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/api-gateway/config"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/api-gateway/routes"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
)

func main() {
	cfg := config.Load()
	log := logger.Initialize(cfg.Env, nil)
	defer log.Sync()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Prometheus("api-gateway"),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.SecurityHeaders(),
		middleware.RateLimitMiddleware(cfg.PublicPerMinute, 0),
	)

	routes.RegisterAllRoutes(r, cfg.Upstreams, cfg.UpstreamTimeout)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("API Gateway listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("API Gateway stopped")
}
