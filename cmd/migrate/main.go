package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/joho/godotenv/autoload"

	"github.com/danutama/loan-tracker/internal/config"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	migrator, err := migrate.New(*source, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to init migrator: %v", err)
	}
	defer migrator.Close()

	if *down {
		err = migrator.Down()
	} else {
		err = migrator.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("No migrations to apply")
			return
		}
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied")
}
