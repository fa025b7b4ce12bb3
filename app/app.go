package app

import (
	"context"
	"os"

	"kidbank/config"
	"kidbank/db"
	"kidbank/logger"
	"kidbank/printer"
	"kidbank/repository"
	"kidbank/service"
	"kidbank/ui"
)

func Run() {
	config.LoadConfig()
	logger.Init()
	logger.SetLevel(config.AppConfig.Log.Level)

	// The shell owns the terminal, so logs go to a file in the data dir.
	if err := os.MkdirAll(config.AppConfig.DataDir, 0o755); err != nil {
		logger.Log.Fatalf("Error creating data directory: %v", err)
	}
	logFile, err := os.OpenFile(config.AppConfig.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Log.Fatalf("Error opening log file: %v", err)
	}
	defer logFile.Close()
	logger.SetOutput(logFile)
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(config.AppConfig.DatabasePath())
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		logger.Log.Fatalf("Error migrating the database: %v", err)
	}

	// --- Wiring All Layers Together ---
	accountRepo := repository.NewAccountRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)

	accountService := service.NewAccountService(accountRepo)
	transactionService := service.NewTransactionService(database, accountRepo, transactionRepo)

	receiptPrinter := printer.New(config.AppConfig.Printer.Command)

	shell := ui.NewShell(
		accountService,
		transactionService,
		receiptPrinter,
		config.AppConfig.Currency.Default,
		os.Stdin,
		os.Stdout,
	)

	if err := shell.Run(context.Background()); err != nil {
		logger.Log.Fatalf("Shell exited with error: %v", err)
	}

	logger.Log.Info("Kidbank exited properly")
}
