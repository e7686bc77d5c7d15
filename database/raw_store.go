package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"tendertrail/normalization"
)

// FetchRawRecords reads up to limit raw records of a source from its raw
// table, oldest first. limit <= 0 means no limit.
func (db *DB) FetchRawRecords(source string, limit int) ([]normalization.RawRecord, error) {
	table, err := rawTableName(source)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT payload FROM %s ORDER BY id`, table)
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw records for %q: %w", source, err)
	}
	defer rows.Close()

	var records []normalization.RawRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan raw record: %w", err)
		}
		var record normalization.RawRecord
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, fmt.Errorf("corrupt raw payload in %s: %w", table, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating raw records: %w", err)
	}
	return records, nil
}

// InsertRawRecords stores raw records into the source's raw table, creating
// the table when needed. Used by the importer and the test-data generator.
func (db *DB) InsertRawRecords(source string, records []normalization.RawRecord) (int, error) {
	if err := db.EnsureRawTable(source); err != nil {
		return 0, err
	}
	table, err := rawTableName(source)
	if err != nil {
		return 0, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %s (raw_id, payload) VALUES (?, ?)`, table))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return inserted, fmt.Errorf("failed to encode raw record: %w", err)
		}
		var rawID any = sql.NullString{}
		if id := record.RawID(); id != "" {
			rawID = id
		}
		if _, err := stmt.Exec(rawID, string(payload)); err != nil {
			return inserted, fmt.Errorf("failed to insert raw record: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit raw records: %w", err)
	}
	return inserted, nil
}

// CountUnified returns the number of unified tenders for a source, for
// reporting and tests.
func (db *DB) CountUnified(source string) (int, error) {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM unified_tenders WHERE source = ?`, source).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unified tenders: %w", err)
	}
	return count, nil
}
