package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"qexport/internal/source"
)

func TestOpen_RoundTrip(t *testing.T) {
	t.Parallel()

	dsn := filepath.Join(t.TempDir(), "t.db")
	db, err := source.Open(context.Background(), source.Config{Kind: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var one int
	if err := db.QueryRowContext(context.Background(), "select 1").Scan(&one); err != nil {
		t.Fatalf("select 1: %v", err)
	}
	if one != 1 {
		t.Fatalf("select 1 = %d", one)
	}
}
