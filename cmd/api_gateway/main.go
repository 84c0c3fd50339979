package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/donation-wallet/internal/api_gateway"
	"github.com/donation-wallet/internal/api_gateway/service"
	"github.com/donation-wallet/internal/auth"
	"github.com/donation-wallet/internal/config"
	"github.com/donation-wallet/internal/data/mongo"
	"github.com/donation-wallet/internal/data/postgres"
	"github.com/donation-wallet/internal/logger"
	"github.com/donation-wallet/internal/platform/messaging/producers"
	"github.com/donation-wallet/internal/platform/persistence"
)

func main() {
	cfg, err := config.LoadConfig("app")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("API gateway stopped with errors", "error", err)
		os.Exit(1)
	}
	log.Info("API gateway shutdown completed successfully")
}

// run wires the gateway, serves until a signal or a server failure, then
// releases resources in reverse order of acquisition.
func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return fmt.Errorf("initialize PostgreSQL: %w", err)
	}
	defer postgresDB.Close()

	mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("initialize MongoDB: %w", err)
	}

	// Donation requests are handed to the processor through Kafka
	requests, err := producers.NewDonationReqMessageProducer(ctx, log, &cfg.Kafka)
	if err != nil {
		closeMongo(cfg, log, mongoDB)
		return fmt.Errorf("initialize donation request producer: %w", err)
	}

	users := postgres.NewUserRepository(log, postgresDB)
	donations := mongo.NewDonationRepository(log, mongoDB.Database())
	tokens := auth.NewTokenManager(&cfg.Auth)

	server := api_gateway.NewServer(log, cfg,
		service.NewAuthService(log, users, tokens, cfg.Wallet.Currency),
		service.NewUserService(users),
		service.NewDonationService(log, users, donations, requests, cfg.Wallet.LedgerLimit),
		tokens,
	)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		serveErr <- server.Start()
	}()

	var failure error
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case failure = <-serveErr:
		log.Error("HTTP server failed", "error", failure)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		failure = errors.Join(failure, err)
	}
	if err := requests.Close(); err != nil {
		failure = errors.Join(failure, fmt.Errorf("close donation request producer: %w", err))
	}
	if err := mongoDB.Close(shutdownCtx); err != nil {
		failure = errors.Join(failure, fmt.Errorf("close MongoDB: %w", err))
	}

	return failure
}

func closeMongo(cfg *config.Config, log *slog.Logger, db *persistence.MongoDB) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
	defer cancel()
	if err := db.Close(ctx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}
}
