package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL that EnsureSchema applies.
func Schema() string {
	return schemaSQL
}

// EnsureSchema creates the listing tables if they do not exist yet.
// Every statement in schema.sql is idempotent.
func (db *Database) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	// Simple protocol allows several statements in one Exec.
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for schema: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Conn().PgConn().Exec(ctx, schemaSQL).ReadAll(); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
