// Package mysql registers the MySQL source backend.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"qexport/internal/source"
)

func init() {
	source.Register("mysql", open)
}

// open validates the DSN up front so malformed connection strings fail
// before any dial attempt.
func open(ctx context.Context, cfg source.Config) (*sql.DB, error) {
	if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	if err := source.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: %w", err)
	}
	return db, nil
}
