package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestOpenCreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "brew.db")

	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = database.Close() }()

	for _, table := range []string{"schema_version", "orders", "order_toppings"} {
		if !tableExists(t, database.SQL(), table) {
			t.Fatalf("expected table %q to exist", table)
		}
	}
	if !columnExists(t, database.SQL(), "orders", "customer") {
		t.Fatal("expected orders.customer column to exist")
	}
	if database.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", database.Path(), dbPath)
	}
}

func TestPragmasApplyToEveryConnection(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "brew.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = database.Close() }()

	ctx := context.Background()
	// Hold both so the pool has to hand out two distinct connections.
	conns := make([]*sql.Conn, 2)
	for i := range conns {
		c, err := database.SQL().Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		defer func() { _ = c.Close() }()
		conns[i] = c
	}

	for i, c := range conns {
		var fk, busy int
		if err := c.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&busy); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if fk != 1 || busy != 5000 {
			t.Errorf("conn %d: foreign_keys=%d busy_timeout=%d, want 1 and 5000", i, fk, busy)
		}
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "brew.db")

	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	database, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer func() { _ = database.Close() }()

	var count int
	if err := database.SQL().QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		t.Fatalf("scan schema_version count: %v", err)
	}
	if count != len(migrations) {
		t.Fatalf("expected %d schema_version rows, got %d", len(migrations), count)
	}
}

func TestMigrationVersioning(t *testing.T) {
	orig := make([]Migration, len(migrations))
	copy(orig, migrations)
	defer func() { migrations = orig }()

	dbPath := filepath.Join(t.TempDir(), "brew.db")
	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	_ = database.Close()

	migrations = append(migrations, Migration{
		Version:     len(orig) + 1,
		Description: "test migration",
		SQL:         `CREATE TABLE test_extra (id INTEGER PRIMARY KEY);`,
	})

	database, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer func() { _ = database.Close() }()

	version, err := CurrentVersion(database.SQL())
	if err != nil {
		t.Fatalf("current version: %v", err)
	}
	if version != len(orig)+1 {
		t.Fatalf("expected version %d, got %d", len(orig)+1, version)
	}
	if !tableExists(t, database.SQL(), "test_extra") {
		t.Fatal("expected test_extra table")
	}
}

func TestMigrationRollsBackOnError(t *testing.T) {
	orig := make([]Migration, len(migrations))
	copy(orig, migrations)
	defer func() { migrations = orig }()

	migrations = append(migrations, Migration{
		Version:     len(orig) + 1,
		Description: "broken",
		SQL:         `CREATE TABLE half_done (id INTEGER); THIS IS NOT SQL;`,
	})

	if _, err := Open(filepath.Join(t.TempDir(), "brew.db")); err == nil {
		t.Fatal("expected broken migration to fail")
	}
}

func TestNilDB(t *testing.T) {
	if err := Migrate(nil); err == nil {
		t.Error("Migrate(nil) should fail")
	}
	if _, err := CurrentVersion(nil); err == nil {
		t.Error("CurrentVersion(nil) should fail")
	}
	var d *DB
	if d.Close() != nil || d.SQL() != nil {
		t.Error("nil DB should be safe to use")
	}
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n > 0
}

func columnExists(t *testing.T, db *sql.DB, table, column string) bool {
	t.Helper()
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	if err != nil {
		t.Fatalf("table_info %s: %v", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("scan table_info: %v", err)
		}
		if name == column {
			return true
		}
	}
	return false
}
