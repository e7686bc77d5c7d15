package database

import (
	"fmt"
	"log"
	"regexp"
)

// migrate creates the fixed tables. Per-source raw tables are created on
// demand by EnsureRawTable.
func (db *DB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS unified_tenders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			raw_id TEXT,
			title TEXT NOT NULL,
			description TEXT,
			date_published TEXT,
			closing_date TEXT,
			tender_value TEXT,
			tender_currency TEXT,
			location TEXT,
			issuing_authority TEXT,
			tender_type TEXT,
			project_size TEXT,
			keywords TEXT,
			contact_information TEXT,
			metadata TEXT,
			processed_at TIMESTAMP NOT NULL
		)`,
		// NULL raw_ids are distinct in SQLite unique indexes, so records
		// without a source identifier never collide with each other.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_unified_tenders_source_raw_id
			ON unified_tenders(source, raw_id)`,
		`CREATE INDEX IF NOT EXISTS idx_unified_tenders_source
			ON unified_tenders(source)`,
		`CREATE TABLE IF NOT EXISTS normalization_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			raw_id TEXT,
			source TEXT NOT NULL,
			stage TEXT NOT NULL,
			error_message TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_normalization_errors_source
			ON normalization_errors(source)`,
		`CREATE TABLE IF NOT EXISTS source_schemas (
			name TEXT PRIMARY KEY,
			schema TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS target_schema (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			schema TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS app_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			config TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

var sourceNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// rawTableName maps a source name onto its raw table, rejecting anything
// that cannot be embedded safely in DDL.
func rawTableName(source string) (string, error) {
	if !sourceNameRe.MatchString(source) {
		return "", fmt.Errorf("invalid source name %q", source)
	}
	return source + "_tenders", nil
}

// EnsureRawTable creates the raw record table for a source if missing.
func (db *DB) EnsureRawTable(source string) error {
	table, err := rawTableName(source)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		raw_id TEXT,
		payload TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, table)
	if _, err := db.conn.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create raw table for %q: %w", source, err)
	}
	log.Printf("ensured raw table %s", table)
	return nil
}
