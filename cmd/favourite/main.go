package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/movie-catalog/docs"

	"github.com/tair/movie-catalog/internal/favourite"
	httpDelivery "github.com/tair/movie-catalog/internal/favourite/delivery/http"
	"github.com/tair/movie-catalog/internal/favourite/domain"
	"github.com/tair/movie-catalog/kafka"
	"github.com/tair/movie-catalog/pkg/auth"
	"github.com/tair/movie-catalog/pkg/database"
	"github.com/tair/movie-catalog/pkg/logger"
	"github.com/tair/movie-catalog/pkg/tracing"
)

// @title Favourite Service API
// @version 1.0
// @description Favourite registration for authenticated catalog users.
// @host localhost:8083
// @BasePath /
func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "favourite-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting favourite service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "moviecatalog"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(&domain.Favourite{}); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Token manager
	tokenTTL, err := time.ParseDuration(getEnv("JWT_TTL", "48h"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid JWT_TTL")
	}
	tokens := auth.NewManager(getEnv("JWT_SECRET", "dev-secret"), tokenTTL)

	// Kafka publisher for favourite insertion notifications
	var publisher httpDelivery.FavouritePublisher
	kafkaBrokers := getEnv("KAFKA_BROKERS", "localhost:9092")
	kafkaPublisher, err := kafka.NewPublisher([]string{kafkaBrokers})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Kafka unavailable, favourite events disabled")
	} else {
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Initialize handler with Wire DI
	handler, err := favourite.InitializeHTTPHandler(db, tokens, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8083")
	go startHTTPServer(handler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(handler *httpDelivery.FavouriteHandler, db *sql.DB, port string) {
	router := mux.NewRouter()

	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(tracing.HTTPMiddleware("http.server", router))); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
