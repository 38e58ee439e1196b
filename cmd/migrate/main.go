package main

import (
	"context"
	"flag"
	"log"
	"time"

	"skill-swap/internal/app"
	"skill-swap/internal/config"
)

func main() {
	seed := flag.Bool("seed", false, "run seeders after migrating")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := c.Migrate(ctx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if *seed || cfg.Database.RunSeeders {
		if err := c.Seed(ctx); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	}
}
