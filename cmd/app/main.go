package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpadapter "fulfillment/internal/adapters/in/http"
	kafkaadapter "fulfillment/internal/adapters/in/kafka"
	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redisx"
	"fulfillment/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	ingestDedupTTL  = 24 * time.Hour
)

func main() {
	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config, err := cmd.LoadConfig(".env")
	if err != nil {
		bootLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel}))
	slog.SetDefault(logger)

	if err = run(config, logger); err != nil {
		logger.Error("fulfillment service stopped", "error", err)
		os.Exit(1)
	}
}

func run(config cmd.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gorm_postgres.Open(config.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	rdb, err := redisx.NewClient(ctx, config.RedisAddr)
	if err != nil {
		return err
	}
	defer rdb.Close()

	app := cmd.NewCompositionRoot(
		gormDB,
		carrier.NewClient(config.CarrierBaseURL, config.CarrierAPIKey, config.CarrierTimeout),
		redisx.NewPublisher(rdb, config.RealtimeChannel),
		logger,
	)

	jobManager := jobs.NewJobManager(app.CreateRelayOutboxCommandHandler(), config.OutboxRelaySchedule, config.OutboxBatchSize, logger)
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	consumerDone := make(chan error, 1)
	if config.KafkaEnabled() {
		consumer := kafkaadapter.NewOrderPlacedConsumer(
			kafkaadapter.NewReader(config.KafkaBrokers, config.KafkaConsumerGroup, config.KafkaOrderPlacedTopic),
			app.CreateCreateOrderCommandHandler(),
			redisx.NewDedupStore(rdb, "order-placed", ingestDedupTTL),
			logger,
		)
		go func() {
			consumerDone <- consumer.Run(ctx)
		}()
		logger.Info("order placed consumer started", "topic", config.KafkaOrderPlacedTopic)
	} else {
		logger.Warn("kafka ingestion disabled: KAFKA_BROKERS or KAFKA_ORDER_PLACED_TOPIC not set")
	}

	server := httpadapter.NewServer(
		app.HTTPHandlers(),
		redisx.NewSubscriber(rdb, config.RealtimeChannel),
		httpadapter.NewMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer),
		logger,
	)
	e := server.NewEcho()
	// Open event streams end with the process context.
	e.Server.BaseContext = func(net.Listener) context.Context { return ctx }

	serverDone := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", config.HTTPPort)
		serverDone <- e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-serverDone:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case err = <-consumerDone:
		if err != nil {
			return fmt.Errorf("order placed consumer: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
