package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"orderflow/cmd"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config, err := getConfig()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormpostgres.Open(postgresDSN(config)), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(config, gormDB, logger)
	if err != nil {
		logger.Error("Failed to build application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := root.Close(); err != nil {
			logger.Error("Failed to close producers", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	consumer := root.CreatePaymentEventConsumer()
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error("Failed to close payment event consumer", "error", err)
		}
	}()

	go func() {
		if err := consumer.Run(ctx); err != nil {
			logger.Error("Payment event consumer stopped", "error", err)
			stop()
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	root.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil {
			logger.Info("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}

func getConfig() (cmd.Config, error) {
	// Missing .env is fine in containerized deployments; variables then
	// come from the process environment.
	_ = godotenv.Load(".env")

	httpTimeout, err := envDuration("HTTP_CLIENT_TIMEOUT", 5*time.Second)
	if err != nil {
		return cmd.Config{}, err
	}

	returnWindow, err := envDuration("RETURN_WINDOW", 30*24*time.Hour)
	if err != nil {
		return cmd.Config{}, err
	}

	paymentTimeout, err := envDuration("PAYMENT_PROCESSING_TIMEOUT", 15*time.Minute)
	if err != nil {
		return cmd.Config{}, err
	}

	maxPaymentAttempts, err := envInt("MAX_PAYMENT_ATTEMPTS", 3)
	if err != nil {
		return cmd.Config{}, err
	}

	maxDeliveryAttempts, err := envInt("MAX_DELIVERY_ATTEMPTS", 3)
	if err != nil {
		return cmd.Config{}, err
	}

	return cmd.Config{
		HTTPPort:                 envString("HTTP_PORT", "8080"),
		DBHost:                   os.Getenv("DB_HOST"),
		DBPort:                   envString("DB_PORT", "5432"),
		DBUser:                   os.Getenv("DB_USER"),
		DBPassword:               os.Getenv("DB_PASSWORD"),
		DBName:                   os.Getenv("DB_NAME"),
		DBSslMode:                envString("DB_SSLMODE", "disable"),
		KafkaHost:                os.Getenv("KAFKA_HOST"),
		KafkaConsumerGroup:       envString("KAFKA_CONSUMER_GROUP", "orderflow"),
		KafkaPaymentEventsTopic:  envString("KAFKA_PAYMENT_EVENTS_TOPIC", "payment.events"),
		KafkaOrderChangedTopic:   envString("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),
		KafkaNotificationsTopic:  envString("KAFKA_NOTIFICATIONS_TOPIC", "customer.notifications"),
		InventoryServiceURL:      os.Getenv("INVENTORY_SERVICE_URL"),
		DeliveryServiceURL:       os.Getenv("DELIVERY_SERVICE_URL"),
		HTTPClientTimeout:        httpTimeout,
		ReturnWindow:             returnWindow,
		MaxPaymentAttempts:       maxPaymentAttempts,
		MaxDeliveryAttempts:      maxDeliveryAttempts,
		PaymentProcessingTimeout: paymentTimeout,
		PaymentSweepSchedule:     envString("PAYMENT_SWEEP_SCHEDULE", "* * * * *"),
	}, nil
}

func postgresDSN(config cmd.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser,
		config.DBPassword, config.DBName, config.DBSslMode,
	)
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return parsed, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return parsed, nil
}
