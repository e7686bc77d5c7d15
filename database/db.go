// Package database is the SQLite persistence sink: raw per-source tables,
// the unified tender table, the normalization error log and the schema
// catalog the registry reads at start-up.
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig tunes the connection pool.
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps the service database connection.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens the service database with sensible pool defaults.
func NewDB(path string) (*DB, error) {
	config := DBConfig{}

	// In-memory SQLite must keep exactly one connection, otherwise every
	// new connection sees an empty database without tables.
	if isInMemory(path) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}

	return NewDBWithConfig(path, config)
}

// NewDBWithConfig opens the service database with explicit pool settings.
func NewDBWithConfig(path string, config DBConfig) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		// SQLite handles many concurrent writers poorly; cap the pool to
		// avoid lock contention.
		conn.SetMaxOpenConns(10)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(3)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Conn exposes the underlying connection for read-only diagnostics.
func (db *DB) Conn() *sql.DB { return db.conn }

// Ping checks the connection.
func (db *DB) Ping() error { return db.conn.Ping() }

// Close closes the connection pool.
func (db *DB) Close() error { return db.conn.Close() }

func isInMemory(path string) bool {
	if path == ":memory:" {
		return true
	}
	return strings.HasPrefix(path, "file:") && strings.Contains(path, "mode=memory")
}
