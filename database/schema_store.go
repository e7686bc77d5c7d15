package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// The DB is the schema.CatalogStore for the registry: read path only from
// the pipeline's perspective. Seeding is an administrative operation.

// SourceSchemaDoc returns the stored schema JSON for a source, or nil when
// the catalog has no row.
func (db *DB) SourceSchemaDoc(name string) ([]byte, error) {
	var doc string
	err := db.conn.QueryRow(
		`SELECT schema FROM source_schemas WHERE name = ?`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source schema %q: %w", name, err)
	}
	return []byte(doc), nil
}

// ListSourceNames returns every source present in the catalog.
func (db *DB) ListSourceNames() ([]string, error) {
	rows, err := db.conn.Query(`SELECT name FROM source_schemas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list source schemas: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan source name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TargetSchemaDoc returns the stored target schema JSON, or nil when none
// was seeded.
func (db *DB) TargetSchemaDoc() ([]byte, error) {
	var doc string
	err := db.conn.QueryRow(`SELECT schema FROM target_schema WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read target schema: %w", err)
	}
	return []byte(doc), nil
}

// SeedSourceSchema stores or replaces one source schema document.
func (db *DB) SeedSourceSchema(name string, doc []byte) error {
	_, err := db.conn.Exec(
		`INSERT INTO source_schemas (name, schema, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET schema = excluded.schema, updated_at = CURRENT_TIMESTAMP`,
		name, string(doc))
	if err != nil {
		return fmt.Errorf("failed to seed source schema %q: %w", name, err)
	}
	return nil
}

// SeedTargetSchema stores or replaces the target schema document.
func (db *DB) SeedTargetSchema(doc []byte) error {
	_, err := db.conn.Exec(
		`INSERT INTO target_schema (id, schema, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET schema = excluded.schema, updated_at = CURRENT_TIMESTAMP`,
		string(doc))
	if err != nil {
		return fmt.Errorf("failed to seed target schema: %w", err)
	}
	return nil
}

// AppConfig returns the stored application config JSON, or "" when unset.
func (db *DB) AppConfig() (string, error) {
	var doc string
	err := db.conn.QueryRow(`SELECT config FROM app_config WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read app config: %w", err)
	}
	return doc, nil
}

// SetAppConfig stores the application config JSON.
func (db *DB) SetAppConfig(doc string) error {
	_, err := db.conn.Exec(
		`INSERT INTO app_config (id, config, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET config = excluded.config, updated_at = CURRENT_TIMESTAMP`,
		doc)
	if err != nil {
		return fmt.Errorf("failed to store app config: %w", err)
	}
	return nil
}
