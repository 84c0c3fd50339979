package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/donation-wallet/internal/config"
	"github.com/donation-wallet/internal/identity"
	"github.com/donation-wallet/internal/logger"
	"github.com/donation-wallet/internal/overlay"
	"github.com/donation-wallet/internal/walletclient"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig("app")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	// The overlay reads donations with the wallet owner's stored session
	sessions := identity.NewFileProvider(cfg.Wallet.TokenFile, log)
	client := walletclient.NewFromConfig(&cfg.Wallet, sessions, log)

	server := overlay.NewServer(log, cfg, client)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting overlay server", "port", cfg.Overlay.Port)
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serverErr = <-errChan:
		log.Error("Server error occurred", "error", serverErr)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		os.Exit(1)
	}
	if serverErr != nil {
		os.Exit(1)
	}
	log.Info("Overlay server shutdown completed successfully")
}
