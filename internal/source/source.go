// Package source contains the registry of database backends an export can
// read from.
//
// Concrete backends live in subpackages (postgres, mysql, mssql, sqlite) and
// register themselves by init; importing qexport/internal/source/all enables
// every built-in backend. The registry hands back a plain *sql.DB so the
// export engine stays driver-agnostic.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Config identifies a database to export from.
type Config struct {
	// Kind selects the backend, e.g. "postgres", "mysql", "mssql", "sqlite".
	Kind string
	// DSN is passed to the backend's driver unchanged.
	DSN string
}

// Factory opens a database for the given config.
type Factory func(ctx context.Context, cfg Config) (*sql.DB, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// Kinds returns the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open constructs a database handle for cfg. Unknown kinds report the
// registered alternatives to make config typos obvious.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown source kind %q (registered: %s)",
			cfg.Kind, strings.Join(Kinds(), ", "))
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// Ping verifies connectivity with a short deadline so bad DSNs fail fast.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
