package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"tendertrail/normalization"
)

// InsertError appends one normalization error to the error table.
func (db *DB) InsertError(e *normalization.NormalizationError) error {
	_, err := db.conn.Exec(
		`INSERT INTO normalization_errors (raw_id, source, stage, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		nullable(e.RawID), e.Source, string(e.Stage), e.Message, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert normalization error: %w", err)
	}
	return nil
}

// ListErrors returns tracked errors, newest last, optionally filtered by
// source. limit <= 0 means no limit.
func (db *DB) ListErrors(source string, limit int) ([]*normalization.NormalizationError, error) {
	query := `SELECT raw_id, source, stage, error_message, created_at
		FROM normalization_errors`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query normalization errors: %w", err)
	}
	defer rows.Close()

	var errs []*normalization.NormalizationError
	for rows.Next() {
		var e normalization.NormalizationError
		var rawID sql.NullString
		var stage string
		if err := rows.Scan(&rawID, &e.Source, &stage, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan normalization error: %w", err)
		}
		e.RawID = rawID.String
		e.Stage = normalization.Stage(stage)
		errs = append(errs, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating normalization errors: %w", err)
	}
	return errs, nil
}

// Tracker is a DB-backed normalization.ErrorTracker. Persist failures are
// logged and swallowed: error tracking must never take a run down.
type Tracker struct {
	db     *DB
	logger *slog.Logger
}

// NewTracker creates a tracker writing to the error table.
func NewTracker(db *DB) *Tracker {
	return &Tracker{
		db:     db,
		logger: slog.Default().With("component", "error_tracker"),
	}
}

// Record implements normalization.ErrorTracker.
func (t *Tracker) Record(e *normalization.NormalizationError) {
	if e == nil {
		return
	}
	if err := t.db.InsertError(e); err != nil {
		t.logger.Error("failed to persist normalization error",
			"source", e.Source, "raw_id", e.RawID, "error", err)
	}
}

func nullable(s string) any {
	if s == "" {
		return sql.NullString{}
	}
	return s
}
