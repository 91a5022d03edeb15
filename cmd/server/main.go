package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/devfolio/blog-api/internal/api"
	"github.com/devfolio/blog-api/internal/config"
	"github.com/devfolio/blog-api/internal/ratelimit"
	"github.com/devfolio/blog-api/internal/repository/mongodb"
	"github.com/devfolio/blog-api/internal/service"
	"github.com/devfolio/blog-api/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()

	// Initialize database
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	defer client.Disconnect(context.Background())

	repos := mongodb.NewRepositories(client.Database(cfg.MongoDB))

	// Resume object storage
	files, err := storage.NewS3Store(ctx, cfg.S3Region, cfg.S3Bucket)
	if err != nil {
		sugar.Fatalw("failed to initialize object storage", "error", err)
	}

	// Rate-limit counter: Redis when configured, process memory otherwise
	var limiter ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.RedisAddr != "" {
		limiter = ratelimit.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), "ratelimit")
	}

	services := service.NewServices(repos, files, cfg, sugar)
	router := api.NewRouter(services, limiter, cfg, sugar)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalw("server forced to shutdown", "error", err)
	}

	sugar.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
