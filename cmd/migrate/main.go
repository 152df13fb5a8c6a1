// Command migrate runs schema migrations outside the API process.
//
//	migrate [-command up|down|status]
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"techrent/internal/config"
	"techrent/internal/database"
	"techrent/internal/server"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down or status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL, zap.NewNop())
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	if database.Dialect(db) == database.DialectPostgres {
		err = database.Goose(ctx, db, *command)
	} else {
		if *command != "up" {
			log.Fatalf("sqlite databases only support -command up")
		}
		err = database.Migrate(ctx, db, server.Models()...)
	}
	if err != nil {
		log.Fatalf("migrate %s failed: %v", *command, err)
	}

	log.Printf("migrate %s completed (%s)", *command, database.Dialect(db))
}
