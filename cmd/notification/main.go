package main

import (
	"context"
	"net/smtp"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tair/movie-catalog/internal/notification"
	"github.com/tair/movie-catalog/kafka"
	"github.com/tair/movie-catalog/pkg/logger"
	"github.com/tair/movie-catalog/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "notification-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting notification service")

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

	// SMTP sender
	smtpAddr := getEnv("SMTP_ADDR", "localhost:1025")
	smtpFrom := getEnv("SMTP_FROM", "noreply@moviecatalog.local")

	var smtpAuth smtp.Auth
	if user := getEnv("SMTP_USER", ""); user != "" {
		host := getEnv("SMTP_AUTH_HOST", "localhost")
		smtpAuth = smtp.PlainAuth("", user, getEnv("SMTP_PASSWORD", ""), host)
	}

	sender := notification.NewSMTPSender(smtpAddr, smtpFrom, smtpAuth)
	handler := notification.NewHandler(sender)

	// Kafka consumer for registration notifications
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kafkaBrokers := getEnv("KAFKA_BROKERS", "localhost:9092")
	groupID := getEnv("KAFKA_GROUP_ID", "notification-service")
	consumer, err := kafka.NewConsumer([]string{kafkaBrokers}, groupID, []string{kafka.TopicUserRegistered})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterUserRegisteredHandler(handler.HandleUserRegistered)

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down consumer...")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
