// Package postgres implements the registry catalog over a Postgres
// data_sources table.
//
// Expected schema (managed by the surrounding platform, not by this package):
//
//	CREATE TABLE data_sources (
//	    id     text PRIMARY KEY,
//	    engine text NOT NULL
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"metascan/internal/registry"
)

func init() {
	registry.Register("postgres", New)
}

// Catalog implements registry.Catalog for Postgres.
type Catalog struct {
	pool *pgxpool.Pool
}

// New connects a pgx pool to the configured DSN.
func New(ctx context.Context, cfg registry.Config) (registry.Catalog, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("registry pool: %w", err)
	}
	return &Catalog{pool: pool}, nil
}

// EngineKind implements registry.KindLookup.
//
// Errors:
//   - registry.ErrNotFound when no data source row exists for the id.
//   - Connection/query errors pass through wrapped; callers that classify
//     tables treat any error as "no engine kind known".
func (c *Catalog) EngineKind(ctx context.Context, dataSourceID string) (string, error) {
	var engine string
	err := c.pool.QueryRow(ctx,
		`SELECT engine FROM data_sources WHERE id = $1`, dataSourceID,
	).Scan(&engine)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", registry.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select engine kind: %w", err)
	}
	return engine, nil
}

// Close closes the connection pool.
func (c *Catalog) Close() error {
	c.pool.Close()
	return nil
}

var _ registry.Catalog = (*Catalog)(nil)
