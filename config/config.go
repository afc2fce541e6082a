package config

import (
	"github.com/joho/godotenv"
	"log/slog"
	"os"
)

type Config struct {
	StorageURL  string
	SasToken    string
	Destination string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		StorageURL:  getEnv("STORAGE_URL", ""),
		SasToken:    getEnv("SAS_TOKEN", ""),
		Destination: getEnv("DESTINATION", ""),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
