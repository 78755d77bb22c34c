// Package dbtest opens the PostgreSQL database used by integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stwalsh4118/hearth/internal/config"
	"github.com/stwalsh4118/hearth/internal/database"
)

// Config returns database configuration for integration tests, read from
// the usual DB_* variables with local defaults.
func Config() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:             getEnvOrDefault("DB_HOST", "localhost"),
		Port:             getEnvOrDefault("DB_PORT", "5432"),
		Name:             getEnvOrDefault("DB_NAME", "hearth_test"),
		User:             getEnvOrDefault("DB_USER", "postgres"),
		Password:         getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:          1,
		PoolMax:          5,
		ConnectTimeout:   2 * time.Second,
		StatementTimeout: 5 * time.Second,
	}
}

// Open connects to the test database and applies the schema. The test is
// skipped in short mode or when no database is reachable.
func Open(t testing.TB) *database.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewPostgresPool(ctx, Config())
	if err != nil {
		t.Skipf("Skipping integration test, database unavailable: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
