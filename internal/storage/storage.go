// Package storage persists everything the season pipeline produces: the
// processed-game ledger, per-game team metric rows, goalie shot logs, puck
// trajectories, and the accumulator snapshot document, all in one embedded
// SQLite file running in WAL mode.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB is a handle on one metrics database.
type DB struct {
	conn *sql.DB
}

// Open creates the database file if needed and applies the embedded schema.
// Reopening an existing database is safe: the schema is IF NOT EXISTS
// throughout, and every game-keyed insert is a REPLACE.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
