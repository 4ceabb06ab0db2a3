// Package mssql implements the registry catalog over a SQL Server
// data_sources table.
//
// Note on driver registration:
//   - This package intentionally does NOT blank-import a SQL Server driver.
//     The application must register the "sqlserver" driver elsewhere
//     (cmd/classify imports github.com/microsoft/go-mssqldb for its side
//     effect). This keeps the package testable with a fake connection.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"metascan/internal/registry"
)

func init() {
	registry.Register("mssql", New)
}

// dbConn is the subset of *sql.DB this package needs. It exists so tests can
// substitute a fake without a running SQL Server.
type dbConn interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
	Close() error
}

// Catalog implements registry.Catalog for SQL Server.
type Catalog struct {
	db dbConn
}

// New opens a SQL Server connection using database/sql and the "sqlserver"
// driver, and verifies it with a ping.
func New(ctx context.Context, cfg registry.Config) (registry.Catalog, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
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
		`SELECT engine FROM data_sources WHERE id = @p1`, dataSourceID,
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
