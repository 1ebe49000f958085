// Package sqlite registers the SQLite source backend using database/sql.
// Exports run read-only queries, so no pragmas are applied beyond the
// driver defaults.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"qexport/internal/source"
)

func init() {
	source.Register("sqlite", open)
}

// open opens a SQLite database. The DSN is passed straight through, e.g.
// "file:data.db?mode=ro" or a bare path.
func open(ctx context.Context, cfg source.Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := source.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return db, nil
}
