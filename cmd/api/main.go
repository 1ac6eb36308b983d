package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodshare-service/internal/app"
	"foodshare-service/internal/auth"
	"foodshare-service/internal/cache"
	"foodshare-service/internal/config"
	"foodshare-service/internal/handlers"
	"foodshare-service/internal/service"
	"foodshare-service/pkg/logger"
	"foodshare-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "foodshare-service/docs" // Import docs for Swagger
)

// @title           FoodShare API
// @version         1.0
// @description     Marketplace connecting restaurants with surplus food to people who need it.

// @host      localhost:8080
// @BasePath  /api/v1

// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg := config.Load()

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("Starting foodshare service",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("use_cache", cfg.UseCache),
		zap.Bool("use_kafka", cfg.UseKafka),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := app.OpenStore(ctx, cfg, appLogger)
	cancel()
	if err != nil {
		appLogger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	publisher, publisherCloser := app.NewPublisher(cfg, appLogger)
	if publisherCloser != nil {
		defer publisherCloser.Close()
	}

	listingCache := app.NewCache(cfg, appLogger)
	var requestIDStore middleware.RequestIDStore = middleware.NewInMemoryRequestIDStore()
	if listingCache != nil {
		requestIDStore = middleware.NewCacheRequestIDStore(listingCache)
		if closer, ok := listingCache.(interface{ Close() error }); ok {
			defer closer.Close()
		}
	}

	deps := service.Deps{
		Store:     store,
		Publisher: publisher,
		Cache:     listingCache,
		CacheTTL:  cache.TTL(cfg.CacheTTL),
		Logger:    appLogger,
	}

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if consumer := app.StartConsumer(consumerCtx, cfg, service.NewEventProcessor(deps), appLogger); consumer != nil {
		defer consumer.Close()
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Store:          store,
		Deps:           deps,
		JWTManager:     auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL(), appLogger),
		RequestIDStore: requestIDStore,
		IdempotencyTTL: cfg.IdempotencyTTL(),
		Logger:         appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}
