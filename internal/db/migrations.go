package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/marcus/brew/internal/logging"
)

// Migration represents a single schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema: orders",
		SQL:         migration001SQL,
	},
	{
		Version:     2,
		Description: "add order_toppings for per-topping sales counts",
		SQL:         migration002SQL,
	},
	{
		Version:     3,
		Description: "add customer column to orders",
		SQL:         migration003SQL,
	},
}

const migration001SQL = `
CREATE TABLE orders (
    id          TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    cost        INTEGER NOT NULL CHECK (cost >= 0),
    created_at  DATETIME NOT NULL
);

CREATE INDEX idx_orders_created ON orders(created_at DESC);
`

const migration002SQL = `
CREATE TABLE order_toppings (
    order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    position  INTEGER NOT NULL,
    topping   TEXT NOT NULL,
    PRIMARY KEY (order_id, position)
);

CREATE INDEX idx_order_toppings_topping ON order_toppings(topping);
`

const migration003SQL = `
ALTER TABLE orders ADD COLUMN customer TEXT NOT NULL DEFAULT '';
`

// Migrate runs all pending migrations, each inside its own transaction.
func Migrate(db *sql.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at DATETIME)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	currentVersion, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	log := logging.Component("db")
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec(migration.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_version (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)`, migration.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", migration.Version, err)
		}

		log.Debugf("applied migration %d: %s", migration.Version, migration.Description)
		currentVersion = migration.Version
	}

	return nil
}

// CurrentVersion returns the current schema version (0 if no migrations applied).
func CurrentVersion(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errors.New("db is nil")
	}

	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	var version int
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("query schema_version: %w", err)
	}
	return version, nil
}
