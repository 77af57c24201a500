package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"jobmatch/internal/app"
	"jobmatch/internal/config"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/database/seeder"

	"github.com/joho/godotenv"
)

func main() {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	demo := flag.Bool("demo", false, "seed a demo employer with sample listings")
	pending := flag.Bool("pending", false, "list migrations that would be applied and exit")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Printf("[Config] .env not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	migrator := migration.Runner{Dir: *dir, Logger: logger}
	if *pending {
		todo, err := migrator.Pending(ctx, db.SQLDB())
		if err != nil {
			logger.Fatalf("list pending migrations: %v", err)
		}
		for _, m := range todo {
			logger.Printf("[Migrate] pending version=%d file=%s", m.Version, m.Filename)
		}
		logger.Printf("[Migrate] pending total=%d", len(todo))
		return
	}

	seeders := seeder.Defaults()
	if *demo {
		seeders = seeder.WithDemo()
	}

	if err := app.Prepare(ctx, db, migrator, seeder.Runner{Seeders: seeders, Logger: logger}); err != nil {
		logger.Fatalf("prepare failed: %v", err)
	}
	logger.Printf("[Migrate] done seeders=%s", strings.Join(seeder.Names(seeders), ","))
}
