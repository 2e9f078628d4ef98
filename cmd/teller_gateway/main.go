package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/branch-teller-ledger/internal/config"
	"github.com/branch-teller-ledger/internal/data/postgres"
	"github.com/branch-teller-ledger/internal/gateway"
	"github.com/branch-teller-ledger/internal/gateway/service"
	"github.com/branch-teller-ledger/internal/logger"
	"github.com/branch-teller-ledger/internal/otp"
	"github.com/branch-teller-ledger/internal/passbook"
	"github.com/branch-teller-ledger/internal/pin"
	"github.com/branch-teller-ledger/internal/platform/persistence"
	"github.com/branch-teller-ledger/internal/workflow"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("teller_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Teller Gateway",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka deliverer for the out-of-band OTP channel
	otpDeliverer, err := otp.NewKafkaDeliverer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize OTP Kafka deliverer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	customerRepo := postgres.NewCustomerRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)

	// Initialize workflow collaborators
	pinHasher := pin.NewSHA256Hasher()
	otpGenerator := otp.NewGenerator()
	workflowService := workflow.NewService(log, customerRepo, ledgerRepo, pinHasher, otpGenerator, otpDeliverer)

	// Initialize the session manager and its idle sweeper
	sessionManager := workflow.NewManager(log, cfg.Session.IdleTTL)
	go sessionManager.RunSweeper(appCtx, cfg.Session.SweepInterval)

	// Initialize customer administration and passbook rendering
	customerService := service.NewCustomerService(customerRepo, ledgerRepo, pinHasher)
	passbookRenderer := passbook.NewRenderer(log, customerRepo, ledgerRepo, cfg.Passbook.OutputDir)

	// Initialize REST server
	server := gateway.NewServer(log, cfg, workflowService, sessionManager, customerService, passbookRenderer)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new workflow steps arrive
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = otpDeliverer.Close(); err != nil {
		log.Error("Error closing OTP Kafka deliverer", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
