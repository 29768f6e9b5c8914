// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8009"
	defaultUploadDir       = "uploads"
	defaultMultipartMemory = 32 << 20
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port   string
	AppEnv string

	// UploadDir is the Store root. Every asset lives directly inside it.
	UploadDir string

	// MultipartMemory is how many bytes of a multipart body are held in memory
	// before the remainder is spooled to temporary files.
	MultipartMemory int64
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:            getEnv("PORT", defaultPort),
		AppEnv:          getEnv("APP_ENV", "development"),
		UploadDir:       getEnv("UPLOAD_DIR", defaultUploadDir),
		MultipartMemory: getEnvInt64("MULTIPART_MEMORY", defaultMultipartMemory),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("ignoring invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
