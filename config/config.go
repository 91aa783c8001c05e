package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all process-wide settings. It is loaded once at startup and
// never mutated afterwards.
type Config struct {
	Port             string
	AppEnv           string // "development" or "production"
	MongoURI         string
	DBName           string
	JWTAccessSecret  string
	JWTRefreshSecret string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CloudinaryURL    string
}

// Load reads configuration from the environment. A .env file is picked up if
// present but is not required. Missing JWT secrets or a missing Mongo URI are
// startup errors, not per-request errors.
func Load() (*Config, error) {
	// Ignore the error: in deployed environments there is no .env file.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8000"),
		AppEnv:           getEnv("APP_ENV", "development"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		DBName:           getEnv("DB_NAME", "feedgram"),
		JWTAccessSecret:  os.Getenv("JWT_SECRET_AUTH"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          0,
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI must be set")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, errors.New("JWT_SECRET_AUTH must be set")
	}
	if cfg.JWTRefreshSecret == "" {
		return nil, errors.New("JWT_REFRESH_SECRET must be set")
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with production settings.
// Controls gin mode and whether error responses include stack traces.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
