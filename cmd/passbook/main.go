package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/branch-teller-ledger/internal/config"
	"github.com/branch-teller-ledger/internal/data/postgres"
	"github.com/branch-teller-ledger/internal/logger"
	"github.com/branch-teller-ledger/internal/passbook"
	"github.com/branch-teller-ledger/internal/platform/persistence"
)

func main() {
	accountID := flag.String("account", "", "render the passbook for a single account id")
	all := flag.Bool("all", false, "render passbooks for every known account")
	flag.Parse()

	if (*accountID == "" && !*all) || (*accountID != "" && *all) {
		fmt.Println("Usage: passbook -account <id> | passbook -all")
		os.Exit(2)
	}

	// Create base context cancelled on interrupt so a long batch can be stopped
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize configuration
	cfg, err := config.LoadConfig("passbook")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer postgresDB.Close()

	// Initialize repositories and renderer
	customerRepo := postgres.NewCustomerRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	renderer := passbook.NewRenderer(log, customerRepo, ledgerRepo, cfg.Passbook.OutputDir)

	if *all {
		batch, err := passbook.NewBatchRenderer(log, renderer, cfg.WorkerPool.Size)
		if err != nil {
			log.Error("Failed to initialize batch renderer", "error", err)
			os.Exit(1)
		}
		defer batch.Release()

		if err := batch.RenderAll(appCtx); err != nil {
			log.Error("Batch passbook rendering finished with errors", "error", err)
			os.Exit(1)
		}
		log.Info("Batch passbook rendering completed")
		return
	}

	path, err := renderer.Render(appCtx, *accountID)
	if err != nil {
		log.Error("Failed to render passbook", "account_id", *accountID, "error", err)
		os.Exit(1)
	}
	log.Info("Passbook rendered", "account_id", *accountID, "path", path)
	fmt.Println(path)
}
