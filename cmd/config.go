package cmd

import "time"

// Config holds all settings the application reads from the environment.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost               string
	KafkaConsumerGroup      string
	KafkaPaymentEventsTopic string
	KafkaOrderChangedTopic  string
	KafkaNotificationsTopic string

	InventoryServiceURL string
	DeliveryServiceURL  string
	HTTPClientTimeout   time.Duration

	ReturnWindow             time.Duration
	MaxPaymentAttempts       int
	MaxDeliveryAttempts      int
	PaymentProcessingTimeout time.Duration
	PaymentSweepSchedule     string
}
