// Package main applies or reverts the PostgreSQL save schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/emberfall/internal/config"
	"github.com/cory-johannsen/emberfall/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	mg, err := postgres.NewMigrator(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer mg.Close()

	before, _, err := mg.Version()
	if err != nil {
		log.Fatalf("reading schema version: %v", err)
	}

	switch *direction {
	case "up":
		err = mg.Up(*steps)
	case "down":
		err = mg.Down(*steps)
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	after, dirty, err := mg.Version()
	if err != nil {
		log.Fatalf("reading schema version: %v", err)
	}
	fmt.Fprintf(os.Stdout, "schema %s: version %d -> %d dirty=%v [%s]\n", *direction, before, after, dirty, time.Since(start))
}
