package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Host         string
	Port         int
	DatabasePath string
	TokenFile    string
	RateLimit    int           // requests per window per client IP, 0 disables
	RateWindow   time.Duration // window the limit is measured over
}

// Load reads configuration from the environment with defaults. A .env file
// in the working directory is merged in first when present.
func Load() (*Config, error) {
	// Missing .env is fine, the environment alone is enough.
	_ = godotenv.Load()

	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	port := 8080
	if envPort := os.Getenv("PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil {
			port = p
		}
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "./data/registry.db"
	}

	tokenFile := os.Getenv("TOKEN_FILE")
	if tokenFile == "" {
		tokenFile = "./tokens.txt"
	}

	rateLimit := 300
	if envLimit := os.Getenv("RATE_LIMIT"); envLimit != "" {
		if n, err := strconv.Atoi(envLimit); err == nil {
			rateLimit = n
		}
	}

	rateWindow := time.Minute
	if envWindow := os.Getenv("RATE_WINDOW"); envWindow != "" {
		if d, err := time.ParseDuration(envWindow); err == nil && d > 0 {
			rateWindow = d
		}
	}

	return &Config{
		Host:         host,
		Port:         port,
		DatabasePath: databasePath,
		TokenFile:    tokenFile,
		RateLimit:    rateLimit,
		RateWindow:   rateWindow,
	}, nil
}
