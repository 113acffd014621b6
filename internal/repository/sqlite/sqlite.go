// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works, and ":memory:" databases
// make repository tests fast and hermetic.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/devevents/api/internal/model"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight — important for
	// a web server sharing one database file across requests.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The schema relies on them:
	// events reference users and categories, attendee rows cascade on delete.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema and seeds the fixed category set. Everything is
// idempotent (IF NOT EXISTS / INSERT OR IGNORE) so it is safe on existing
// databases.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			bio        TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating categories table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL,
			cover_image    TEXT NOT NULL DEFAULT '',
			venue          TEXT NOT NULL,
			venue_lat      REAL NOT NULL DEFAULT 0,
			venue_lng      REAL NOT NULL DEFAULT 0,
			attendee_total INTEGER NOT NULL,
			date           DATETIME NOT NULL,
			user_id        INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id    INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id);
		CREATE INDEX IF NOT EXISTS idx_events_category_id ON events(category_id);
	`)
	if err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS event_attendees (
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE (event_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_event_attendees_event_id ON event_attendees(event_id);
	`)
	if err != nil {
		return fmt.Errorf("creating event_attendees table: %w", err)
	}

	for _, name := range model.SeedCategories {
		if _, err := db.conn.Exec(
			`INSERT OR IGNORE INTO categories (name) VALUES (?)`, name,
		); err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
	}

	return nil
}
