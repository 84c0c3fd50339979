package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donation-wallet/internal/config"
	"github.com/donation-wallet/internal/data/mongo"
	"github.com/donation-wallet/internal/data/postgres"
	"github.com/donation-wallet/internal/donation_processor/components"
	"github.com/donation-wallet/internal/donation_processor/consumer"
	"github.com/donation-wallet/internal/donation_processor/outbox_poller"
	"github.com/donation-wallet/internal/donation_processor/service"
	"github.com/donation-wallet/internal/logger"
	"github.com/donation-wallet/internal/platform/messaging/consumers"
	"github.com/donation-wallet/internal/platform/messaging/producers"
	"github.com/donation-wallet/internal/platform/persistence"
	"golang.org/x/sync/errgroup"
)

// drainTimeout bounds how long in-flight donations may take after a signal
const drainTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig("app")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)
	log.Info("Starting donation processor", "app_name", cfg.Application.Name, "env", cfg.Application.Env)

	if err := run(cfg, log); err != nil {
		log.Error("Donation processor stopped with errors", "error", err)
		os.Exit(1)
	}
	log.Info("Donation processor shutdown completed successfully")
}

// run credits donations from Kafka and completes them from the outbox until
// a signal arrives, then drains the worker pool and closes every client.
func run(cfg *config.Config, log *slog.Logger) (err error) {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	postgresDB, err := persistence.NewPostgresDB(sigCtx, log, &cfg.Postgres)
	if err != nil {
		return fmt.Errorf("initialize PostgreSQL: %w", err)
	}
	defer postgresDB.Close()

	mongoDB, err := persistence.NewMongoDB(sigCtx, log, &cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("initialize MongoDB: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
		defer cancel()
		if closeErr := mongoDB.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close MongoDB: %w", closeErr))
		}
	}()

	// nil when no DLQ topic is configured; the handler then drops bad payloads
	dlq, err := producers.NewDLQProducer(sigCtx, log, &cfg.Kafka)
	if err != nil {
		return fmt.Errorf("initialize DLQ producer: %w", err)
	}
	defer func() {
		if dlq == nil {
			return
		}
		if closeErr := dlq.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close DLQ producer: %w", closeErr))
		}
	}()

	users := postgres.NewUserRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	donations := mongo.NewDonationRepository(log, mongoDB.Database())

	processing := components.CreateProcessingService(postgresDB.Pool(), users, outboxRepo, donations, log, cfg)
	handler := consumer.NewDonationEventHandler(log, processing, dlq)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, outbox_poller.NewLedgerPublisher(outboxRepo, donations, log), log)

	kafkaConsumer := consumers.NewKafkaConsumer(sigCtx, log, &cfg.Kafka)
	defer func() {
		if closeErr := kafkaConsumer.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close Kafka consumer: %w", closeErr))
		}
	}()

	g, ctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		if err := kafkaConsumer.Subscribe(ctx, handler.HandleMessage); err != nil {
			return fmt.Errorf("subscribe to %s: %w", cfg.Kafka.DonationTopic, err)
		}
		<-ctx.Done()
		return nil
	})
	g.Go(func() error {
		poller.Start(ctx)
		return nil
	})

	<-ctx.Done()
	log.Info("Shutdown signal received, draining")

	waited := make(chan error, 1)
	go func() { waited <- g.Wait() }()

	select {
	case err = <-waited:
	case <-time.After(drainTimeout):
		log.Warn("Drain timeout reached, closing with work in flight")
	}

	if pool, ok := processing.(*service.WorkerPoolProcessingService); ok {
		pool.Shutdown()
	}
	return err
}
