// Package sqlite implements the registry catalog over a SQLite
// data_sources table.
//
// This backend is mainly useful for local development and tests: the catalog
// fits in a single file (or in-memory database) and needs no server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"metascan/internal/registry"
)

func init() {
	registry.Register("sqlite", New)
}

// Catalog implements registry.Catalog for SQLite.
type Catalog struct {
	db *sql.DB
}

// New opens the SQLite database at the configured DSN and verifies the
// connection with a ping.
func New(ctx context.Context, cfg registry.Config) (registry.Catalog, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// EngineKind implements registry.KindLookup.
func (c *Catalog) EngineKind(ctx context.Context, dataSourceID string) (string, error) {
	var engine string
	err := c.db.QueryRowContext(ctx,
		`SELECT engine FROM data_sources WHERE id = ?`, dataSourceID,
	).Scan(&engine)
	if errors.Is(err, sql.ErrNoRows) {
		return "", registry.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select engine kind: %w", err)
	}
	return engine, nil
}

// Close closes the database handle.
func (c *Catalog) Close() error { return c.db.Close() }

var _ registry.Catalog = (*Catalog)(nil)
