package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr       string
	RealtimeChannel string

	KafkaBrokers          []string
	KafkaConsumerGroup    string
	KafkaOrderPlacedTopic string

	CarrierBaseURL string
	CarrierAPIKey  string
	CarrierTimeout time.Duration

	OutboxRelaySchedule string
	OutboxBatchSize     int

	LogLevel slog.Level
}

// DSN is the PostgreSQL connection string for the gorm driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaEnabled reports whether order ingestion from Kafka is configured.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaOrderPlacedTopic != ""
}

// LoadConfig reads an optional .env file and then the environment. Missing
// required keys are reported together.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		HTTPPort:   withDefault("HTTP_PORT", "8080"),
		DBHost:     required("DB_HOST"),
		DBPort:     withDefault("DB_PORT", "5432"),
		DBUser:     required("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     required("DB_NAME"),
		DBSslMode:  withDefault("DB_SSLMODE", "disable"),

		RedisAddr:       required("REDIS_ADDR"),
		RealtimeChannel: withDefault("REALTIME_CHANNEL", "fulfillment.events"),

		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaConsumerGroup:    withDefault("KAFKA_CONSUMER_GROUP", "fulfillment"),
		KafkaOrderPlacedTopic: os.Getenv("KAFKA_ORDER_PLACED_TOPIC"),

		CarrierBaseURL: required("CARRIER_BASE_URL"),
		CarrierAPIKey:  os.Getenv("CARRIER_API_KEY"),

		OutboxRelaySchedule: withDefault("OUTBOX_RELAY_SCHEDULE", "* * * * * *"),
	}

	var errList []error
	if len(missing) > 0 {
		errList = append(errList, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", ")))
	}

	timeout, err := time.ParseDuration(withDefault("CARRIER_TIMEOUT", "10s"))
	if err != nil {
		errList = append(errList, fmt.Errorf("CARRIER_TIMEOUT: %w", err))
	}
	cfg.CarrierTimeout = timeout

	batch, err := strconv.Atoi(withDefault("OUTBOX_BATCH_SIZE", "100"))
	if err != nil {
		errList = append(errList, fmt.Errorf("OUTBOX_BATCH_SIZE: %w", err))
	}
	cfg.OutboxBatchSize = batch

	if err = cfg.LogLevel.UnmarshalText([]byte(withDefault("LOG_LEVEL", "info"))); err != nil {
		errList = append(errList, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if err = errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func withDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
