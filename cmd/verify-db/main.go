// verify-db checks a ledger database for stock and totals drift: item
// quantities that disagree with the movement journal, voided sales whose
// stock never came back, and sale headers that disagree with their lines.
//
// Usage: go run ./cmd/verify-db [-migrate]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"salesledger/internal/config"
	"salesledger/internal/core"
	"salesledger/internal/db"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending migrations before checking")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	if *migrate {
		if err := db.Migrate(cfg.Database.URL); err != nil {
			log.Fatalf("[MIGRATE] %v", err)
		}
		log.Println("[MIGRATE] success")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.Database.URL, 1)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	defer pool.Close()
	log.Println("[CONNECT] success")

	issues, err := core.CheckIntegrity(ctx, pool)
	if err != nil {
		log.Fatalf("[CHECK] %v", err)
	}

	for _, is := range issues {
		log.Printf("[FAIL] %-24s id=%-6d %s", is.Check, is.EntityID, is.Detail)
	}
	if len(issues) > 0 {
		log.Printf("[DONE] %d issue(s) found.", len(issues))
		os.Exit(1)
	}
	log.Println("[DONE] Ledger is consistent.")
}
