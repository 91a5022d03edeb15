package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/devfolio/blog-api/internal/api/cookies"
)

type Config struct {
	// Server
	Port        string
	Environment string
	CORSOrigin  string

	// Database
	MongoURI string
	MongoDB  string

	// Tokens
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration

	// Owner identity for the authorization gate
	OwnerEmail  string
	OwnerUserID string

	// Rate limiting
	RedisAddr       string
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Resume storage
	S3Bucket       string
	S3Region       string
	ResumeMaxBytes int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8000"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		CORSOrigin:         getEnv("CORS_ORIGIN", "*"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "blog"),
		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		AccessTokenExpiry:  getEnvExpiry("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		RefreshTokenExpiry: getEnvExpiry("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
		OwnerEmail:         getEnv("OWNER_EMAIL", ""),
		OwnerUserID:        getEnv("OWNER_USER_ID", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RateLimitMax:       getEnvInt("RATE_LIMIT_MAX", 120),
		RateLimitWindow:    time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		ResumeMaxBytes:     int64(getEnvInt("RESUME_MAX_SIZE_BYTES", 5*1024*1024)),
	}

	if cfg.AccessTokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET environment variable is required")
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("REFRESH_TOKEN_SECRET environment variable is required")
	}

	return cfg, nil
}

// IsProduction reports whether the deployment-mode flag is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvExpiry(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, ok := cookies.ParseExpiry(value); ok {
			return d
		}
	}
	return fallback
}
