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
	"github.com/donation-wallet/internal/wallet"
	"github.com/donation-wallet/internal/walletclient"
	"github.com/donation-wallet/internal/walletui"
)

const defaultLogFile = "wallet.log"

func main() {
	cfg, err := config.LoadConfig("app")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Log lines would corrupt the interactive screen, so they go to a file
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = defaultLogFile
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Printf("Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.NewLoggerTo(cfg, logFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := identity.NewFileProvider(cfg.Wallet.TokenFile, log)
	client := walletclient.NewFromConfig(&cfg.Wallet, sessions, log)
	view := wallet.NewView(client, cfg.Wallet.TrailingWindowDays, log)

	app := walletui.NewApp(view, client, sessions, walletui.Options{
		OverlayBase: cfg.Overlay.PublicURL,
		Currency:    cfg.Wallet.Currency,
		WindowDays:  cfg.Wallet.TrailingWindowDays,
	}, os.Stdout, log)

	if err := app.Run(ctx); err != nil {
		log.Error("Wallet exited with error", "error", err)
		fmt.Printf("Wallet error: %v\n", err)
		os.Exit(1)
	}
}
