// Package registry resolves a data source id to the engine kind of the
// backend that owns it ("postgres", "druid", "googleanalytics", ...).
//
// The table classifier consumes only the one-method KindLookup interface, so
// it can be tested against a deterministic fake and never couples to a real
// catalog's latency or failure modes. Real catalogs live in the backend
// subpackages (postgres, sqlite, mssql, memory), which register factories
// here the same way storage backends register themselves in a pipeline.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by lookups when the catalog has no row for the
// requested data source id. Callers are expected to treat it the same as any
// other lookup failure: "no engine kind known".
var ErrNotFound = errors.New("registry: data source not found")

// KindLookup resolves a data source id to its engine kind.
type KindLookup interface {
	// EngineKind returns the engine kind of the data source with the given
	// id. It returns ErrNotFound when the id is unknown to the catalog.
	EngineKind(ctx context.Context, dataSourceID string) (string, error)
}

// Catalog is a KindLookup with a lifecycle. Backend factories return
// Catalogs so callers can release connections at shutdown.
type Catalog interface {
	KindLookup

	// Close releases backend resources. Call once at process shutdown.
	Close() error
}

// Config selects and configures a catalog backend.
//
// Edge cases:
//   - Kind must match a registered backend kind ("postgres", "sqlite",
//     "mssql", "memory").
//   - DSN interpretation is backend-specific; the memory backend treats it
//     as a path to a JSON id->engine map.
type Config struct {
	Kind string
	DSN  string
}

type factory func(ctx context.Context, cfg Config) (Catalog, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a catalog backend factory under a kind.
//
// When to use:
//   - Call Register from an init() function in a backend package.
//
// Edge cases:
//   - Registering an empty kind, a nil factory, or the same kind twice
//     panics. These are programmer errors we want to fail loudly at startup,
//     not at first lookup.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("registry: Register called with empty kind")
	}
	if f == nil {
		panic("registry: Register called with nil factory")
	}
	if _, dup := factories[kind]; dup {
		panic("registry: Register called twice for kind " + kind)
	}
	factories[kind] = f
}

// New constructs a catalog for the configured backend kind.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or not registered, or if the
//     backend factory fails (bad DSN, unreachable server, ...).
func New(ctx context.Context, cfg Config) (Catalog, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("registry: backend kind must be set")
	}

	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unsupported backend kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}
