package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name        string
	BaseURL     string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration. Each service can run multiple
// instances behind the round-robin balancer via the *_SERVICE_URLS variables
// (comma separated); the single-URL variable is the fallback.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8080"),
		Services: map[string]ServiceConfig{
			"user": {
				Name:        "user-service",
				BaseURL:     getEnv("USER_SERVICE_URL", "http://localhost:8081"),
				Instances:   instances("USER_SERVICE_URLS", getEnv("USER_SERVICE_URL", "http://localhost:8081")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"movie": {
				Name:        "movie-service",
				BaseURL:     getEnv("MOVIE_SERVICE_URL", "http://localhost:8082"),
				Instances:   instances("MOVIE_SERVICE_URLS", getEnv("MOVIE_SERVICE_URL", "http://localhost:8082")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"favourite": {
				Name:        "favourite-service",
				BaseURL:     getEnv("FAVOURITE_SERVICE_URL", "http://localhost:8083"),
				Instances:   instances("FAVOURITE_SERVICE_URLS", getEnv("FAVOURITE_SERVICE_URL", "http://localhost:8083")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"popularity": {
				Name:        "popularity-service",
				BaseURL:     getEnv("POPULARITY_SERVICE_URL", "http://localhost:8084"),
				Instances:   instances("POPULARITY_SERVICE_URLS", getEnv("POPULARITY_SERVICE_URL", "http://localhost:8084")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func instances(key, fallback string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{fallback}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
