// Package mssql registers the Microsoft SQL Server source backend on
// go-mssqldb.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"qexport/internal/source"
)

func init() {
	source.Register("mssql", open)
}

// open validates the DSN with msdsn to fail fast on obvious mistakes.
func open(ctx context.Context, cfg source.Config) (*sql.DB, error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	if err := source.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: %w", err)
	}
	return db, nil
}
