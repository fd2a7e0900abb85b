package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"henalis/infra/postgres"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// New opens a fresh in-memory SQLite database with the schema applied.
// The pool is pinned to one connection because every :memory: connection is its own database.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("enabling foreign keys: %v", err)
	}

	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// NewShared opens a file-backed SQLite database that several connections can use at once,
// for tests that need transactions to overlap. Writers still queue on the database lock;
// busy_timeout makes them wait for it instead of failing.
func NewShared(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "henalis.db") +
		"?_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("opening shared test database: %v", err)
	}
	db.SetMaxOpenConns(8)

	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("creating shared test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
