package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at boot.
type Config struct {
	Port          string
	Env           string
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	UploadDir     string
	MaxFileSize   int64
	AdminEmail    string
	AdminPassword string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: .env file not found, using system environment variables")
	}
}

func LoadConfig() Config {
	cfg := Config{
		Port:          envOr("PORT", "4000"),
		Env:           envOr("APP_ENV", "development"),
		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessExpiry:  envDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		RefreshExpiry: envDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		UploadDir:     envOr("UPLOAD_DIR", "./uploads"),
		MaxFileSize:   envInt64("MAX_FILE_SIZE", 10*1024*1024),
		AdminEmail:    envOr("ADMIN_EMAIL", "admin@marketplace.com"),
		AdminPassword: envOr("ADMIN_PASSWORD", "Admin123!"),
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		log.Fatal("❌ JWT_ACCESS_SECRET / JWT_REFRESH_SECRET missing in .env")
	}

	return cfg
}

func (c Config) isProduction() bool {
	return c.Env == "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using default", key, v)
		return fallback
	}
	return d
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using default", key, v)
		return fallback
	}
	return n
}
