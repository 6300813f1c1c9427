package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"salesledger/internal/adapters/cli"
	"salesledger/internal/adapters/repl"
	"salesledger/internal/app"
	"salesledger/internal/config"
	"salesledger/internal/core"
	"salesledger/internal/db"
	"salesledger/internal/logging"

	"go.uber.org/zap"
)

// With arguments, app runs one CLI command and exits; without, it starts the
// interactive sales desk. The operator is LEDGER_USER / LEDGER_PASSWORD.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Command output owns stdout; logs stay on stderr at warn by default.
	level := cfg.App.LogLevel
	if level == "info" {
		level = "warn"
	}
	logger, err := logging.New(level, "console")
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := db.Migrate(cfg.Database.URL); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		fmt.Println("Schema is up to date.")
		return
	}

	pool, err := db.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	opts := core.Options{
		Logger:       logger,
		Audit:        core.NewAuditLogger(pool, logger),
		MaxTxRetries: cfg.Database.TxMaxRetries,
	}
	inventoryService := core.NewInventoryService(pool, opts)
	saleService := core.NewSaleService(pool, inventoryService, opts)
	customerService := core.NewCustomerService(pool, opts)
	reportingService := core.NewReportingService(pool)
	userService := core.NewUserService(pool)

	svc := app.NewAppService(pool, inventoryService, saleService, customerService, reportingService, userService)

	if cfg.Auth.OperatorUsername == "" {
		log.Fatal("LEDGER_USER and LEDGER_PASSWORD must identify the operator")
	}
	session, err := svc.AuthenticateUser(ctx, cfg.Auth.OperatorUsername, cfg.Auth.OperatorPassword)
	if err != nil {
		log.Fatalf("Operator login failed: %v", err)
	}
	logger.Debug("operator authenticated", zap.Int("user_id", session.UserID))

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, svc, os.Args[1:], session.UserID, os.Stdout); err != nil {
			if errors.Is(err, cli.ErrUsage) {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			log.Fatalf("Error: %v", err)
		}
		return
	}

	fmt.Printf("Signed in as %s (%s)\n", session.Username, session.Role)
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout, session.UserID)
}
