package source

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

// TestRegisterAndOpen verifies that registering a backend makes it reachable
// through Open with the registry's validation applied.
func TestRegisterAndOpen(t *testing.T) {
	const kind = "fake-open"

	var gotDSN string
	Register(kind, func(ctx context.Context, cfg Config) (*sql.DB, error) {
		gotDSN = cfg.DSN
		return nil, nil
	})

	if _, err := Open(context.Background(), Config{Kind: kind, DSN: "dsn://x"}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if gotDSN != "dsn://x" {
		t.Fatalf("factory saw DSN %q", gotDSN)
	}
}

func TestOpen_UnknownKindListsRegistered(t *testing.T) {
	Register("fake-listed", func(ctx context.Context, cfg Config) (*sql.DB, error) {
		return nil, nil
	})

	_, err := Open(context.Background(), Config{Kind: "nope", DSN: "x"})
	if err == nil {
		t.Fatal("Open with unknown kind should fail")
	}
	if !strings.Contains(err.Error(), "fake-listed") {
		t.Fatalf("error should list registered kinds, got %v", err)
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	Register("fake-dsn", func(ctx context.Context, cfg Config) (*sql.DB, error) {
		t.Fatal("factory must not run for empty DSN")
		return nil, nil
	})

	if _, err := Open(context.Background(), Config{Kind: "fake-dsn", DSN: "  "}); err == nil {
		t.Fatal("Open with blank DSN should fail")
	}
}

func TestRegister_Override(t *testing.T) {
	const kind = "fake-override"

	Register(kind, func(ctx context.Context, cfg Config) (*sql.DB, error) {
		t.Fatal("old factory must be replaced")
		return nil, nil
	})
	called := false
	Register(kind, func(ctx context.Context, cfg Config) (*sql.DB, error) {
		called = true
		return nil, nil
	})

	if _, err := Open(context.Background(), Config{Kind: kind, DSN: "x"}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !called {
		t.Fatal("replacement factory not used")
	}
}
