// Package postgres registers the Postgres source backend on pgx v5's
// database/sql adapter.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"qexport/internal/source"
)

func init() {
	source.Register("postgres", open)
}

// open validates the DSN with pgx before touching the network, then opens
// the stdlib adapter.
func open(ctx context.Context, cfg source.Config) (*sql.DB, error) {
	if _, err := pgx.ParseConfig(cfg.DSN); err != nil {
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := source.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", describeErr(err))
	}
	return db, nil
}

// describeErr surfaces the server's SQLSTATE when present; "FATAL 28P01" is
// far more actionable than a generic handshake failure.
func describeErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s (SQLSTATE %s): %w", pgErr.Message, pgErr.Code, err)
	}
	return err
}
