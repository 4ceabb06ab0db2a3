package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"metascan/internal/registry"
)

// openSeeded creates a throwaway catalog database with a data_sources table.
func openSeeded(t *testing.T, rows map[string]string) registry.Catalog {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	c, err := New(ctx, registry.Config{Kind: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("open sqlite catalog: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	db := c.(*Catalog).db
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE data_sources (id TEXT PRIMARY KEY, engine TEXT NOT NULL)`); err != nil {
		t.Fatalf("create data_sources: %v", err)
	}
	for id, engine := range rows {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO data_sources (id, engine) VALUES (?, ?)`, id, engine); err != nil {
			t.Fatalf("seed data_sources: %v", err)
		}
	}
	return c
}

// TestEngineKind verifies lookups against a real (file-backed) catalog.
//
// This exercises the actual SQL path, including the sql.ErrNoRows to
// registry.ErrNotFound translation that the table classifier depends on.
func TestEngineKind(t *testing.T) {
	t.Parallel()

	c := openSeeded(t, map[string]string{
		"ds-pg":    "postgres",
		"ds-druid": "druid",
	})

	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr error
	}{
		{"known id", "ds-druid", "druid", nil},
		{"other known id", "ds-pg", "postgres", nil},
		{"unknown id", "ds-unknown", "", registry.ErrNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind, err := c.EngineKind(ctx, tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("EngineKind(%q) err = %v, want %v", tt.id, err, tt.wantErr)
				}
				return
			}
			if err != nil || kind != tt.want {
				t.Fatalf("EngineKind(%q) = %q, %v; want %q, nil", tt.id, kind, err, tt.want)
			}
		})
	}
}
