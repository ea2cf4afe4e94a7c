// utils/config.go
package utils

import (
	"fmt"
	"os"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed into controllers and jobs, so business logic
// never reaches into os.Getenv itself.
type Config struct {
	Port             string
	MongoURI         string
	DatabaseName     string
	JWTSecret        string
	GatewaySecretKey string
	GatewayBaseURL   string
	FrontendBaseURL  string
	PostmarkToken    string
	EmailSender      string
}

// LoadConfig reads configuration from the environment, applying defaults for
// optional values and rejecting missing required ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8000"),
		MongoURI:         os.Getenv("MONGO_URI"),
		DatabaseName:     getEnv("DB_NAME", "bakeshop"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		GatewaySecretKey: os.Getenv("PAYMONGO_SECRET_KEY"),
		GatewayBaseURL:   getEnv("PAYMONGO_BASE_URL", "https://api.paymongo.com/v1"),
		FrontendBaseURL:  getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		PostmarkToken:    os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:      os.Getenv("EMAIL_SENDER"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.GatewaySecretKey == "" {
		return nil, fmt.Errorf("PAYMONGO_SECRET_KEY is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
