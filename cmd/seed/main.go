// Command seed fills the database with generated listings for local
// development. Counts and the random seed come from SEED_* variables and
// can be overridden with flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stwalsh4118/hearth/internal/config"
	"github.com/stwalsh4118/hearth/internal/database"
	"github.com/stwalsh4118/hearth/internal/logger"
	"github.com/stwalsh4118/hearth/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	listings := flag.Int("listings", cfg.Seed.Listings, "number of listings to generate")
	randomSeed := flag.Int64("seed", cfg.Seed.RandomSeed, "random seed; the same seed yields the same listings")
	batchSize := flag.Int("batch", cfg.Seed.BatchSize, "listings per transaction")
	flag.Parse()

	log := logger.New(cfg.Server.Env, cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The database may still be starting when this runs under compose.
	var db *database.Database
	err = database.Retry(ctx, database.DefaultRetryPolicy, func(ctx context.Context) error {
		var connErr error
		db, connErr = database.NewPostgresPool(ctx, cfg.Database)
		if connErr != nil {
			log.Warn("Database not ready, retrying", map[string]interface{}{"error": connErr.Error()})
		}
		return connErr
	})
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to apply database schema", err, nil)
	}

	catalog, err := seed.LoadCatalog()
	if err != nil {
		log.Fatal("Failed to load seed catalog", err, nil)
	}

	summary, err := seed.New(db, catalog, seed.Options{
		Listings:   *listings,
		RandomSeed: *randomSeed,
		BatchSize:  *batchSize,
	}, log).Run(ctx)
	if err != nil {
		log.Fatal("Seeding failed", err, nil)
	}

	fmt.Printf("Seeded %d listings (%d already present) across %d cities\n",
		summary.Listings, summary.Skipped, summary.Cities)
}
