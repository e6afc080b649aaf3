package config

import (
	"flag"
	"os"
)

type Config struct {
	RunAddress     string
	DatabaseDriver string
	DatabaseURI    string
	JWTSecret      string
	PayMongoKey    string
	PayMongoAPIURL string
	UploadDir      string
}

func New() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "server address and port")
	flag.StringVar(&cfg.DatabaseDriver, "b", "sqlite", "database backend: sqlite or postgres")
	flag.StringVar(&cfg.DatabaseURI, "d", "aquasphere.db", "database URI (postgres DSN or sqlite file path)")
	flag.StringVar(&cfg.JWTSecret, "s", "super-secret-jwt-key", "jwt signing key")
	flag.StringVar(&cfg.UploadDir, "u", "uploads", "directory for uploaded files")
	flag.Parse()

	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.DatabaseDriver = getEnv("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseURI = getEnv("DATABASE_URI", cfg.DatabaseURI)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.PayMongoKey = getEnv("PAYMONGO_SECRET_KEY", "")
	cfg.PayMongoAPIURL = getEnv("PAYMONGO_API_URL", "https://api.paymongo.com/v1")

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
