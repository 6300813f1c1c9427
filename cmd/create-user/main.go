// create-user adds a login to a ledger database. The password is read from
// NEW_USER_PASSWORD, or from the first line of stdin when that is unset.
//
// Usage: go run ./cmd/create-user -username alice -email alice@example.com [-role admin]
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"salesledger/internal/config"
	"salesledger/internal/core"
	"salesledger/internal/db"
)

func main() {
	username := flag.String("username", "", "login name")
	email := flag.String("email", "", "email address")
	role := flag.String("role", core.DefaultRole, "user role")
	flag.Parse()

	if *username == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	password := os.Getenv("NEW_USER_PASSWORD")
	if password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatal("No password given on NEW_USER_PASSWORD or stdin")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database.URL, 1)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	user, err := core.NewUserService(pool).CreateUser(ctx, *username, *email, password, *role)
	if err != nil {
		if errors.Is(err, core.ErrUserExists) {
			log.Fatalf("User %q or email %q is already registered", *username, *email)
		}
		log.Fatalf("Failed to create user: %v", err)
	}
	log.Printf("Created user %s (id %d, role %s)", user.Username, user.ID, user.Role)
}
