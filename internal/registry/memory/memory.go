// Package memory implements an in-memory registry catalog.
//
// It serves two purposes:
//   - deterministic fake for classifier and engine tests
//   - file-driven runs of cmd/classify where no catalog database exists
//     (the DSN is a path to a JSON object mapping data source id -> engine)
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"metascan/internal/registry"
)

func init() {
	registry.Register("memory", func(_ context.Context, cfg registry.Config) (registry.Catalog, error) {
		if cfg.DSN == "" {
			return New(nil), nil
		}
		return NewFromFile(cfg.DSN)
	})
}

// Catalog implements registry.Catalog over a fixed map.
//
// The map is never mutated after construction, so lookups are safe from any
// number of goroutines.
type Catalog struct {
	kinds map[string]string
}

// New returns a catalog answering from the given id -> engine kind map.
// A nil map is valid and yields ErrNotFound for every lookup.
func New(kinds map[string]string) *Catalog {
	cp := make(map[string]string, len(kinds))
	for id, kind := range kinds {
		cp[id] = kind
	}
	return &Catalog{kinds: cp}
}

// NewFromFile loads a JSON object of id -> engine kind from path.
func NewFromFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var kinds map[string]string
	if err := json.Unmarshal(b, &kinds); err != nil {
		return nil, fmt.Errorf("parse registry file: %w", err)
	}
	return New(kinds), nil
}

// EngineKind implements registry.KindLookup.
func (c *Catalog) EngineKind(_ context.Context, dataSourceID string) (string, error) {
	kind, ok := c.kinds[dataSourceID]
	if !ok {
		return "", registry.ErrNotFound
	}
	return kind, nil
}

// Close implements registry.Catalog. It is a no-op.
func (c *Catalog) Close() error { return nil }

var _ registry.Catalog = (*Catalog)(nil)
