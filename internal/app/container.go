package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	"skill-swap/internal/database/migration"
	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/database/seeder"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/usecase"
	"skill-swap/internal/ws"
	"skill-swap/migrations"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		Hub:    ws.NewHub(logger),
		Logger: logger,
	}, nil
}

// Migrate applies pending schema migrations. MIGRATIONS_DIR overrides the
// embedded set.
func (c *Container) Migrate(ctx context.Context) error {
	r := migration.Runner{FS: migrations.Files}
	if c.Config.Database.MigrationsDir != "" {
		r = migration.Runner{Dir: c.Config.Database.MigrationsDir}
	}
	if err := r.Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	c.Logger.Printf("Migrations applied")
	return nil
}

// Seed inserts the demo data. Rows it adds start a new recommendation cache
// generation, also for a server already running against the same Redis.
func (c *Container) Seed(ctx context.Context) error {
	r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}
	report, err := r.Run(ctx, c.DB)
	if err != nil {
		return err
	}
	if report.ChangedSkillPosts() && c.Cache != nil {
		usecase.InvalidateRecommendations(ctx, c.Cache, c.Logger)
	}
	c.Logger.Printf("Seeders completed | count=%d inserted=%d", len(r.Seeders), report.Total())
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
