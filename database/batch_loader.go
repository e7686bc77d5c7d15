package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"tendertrail/normalization"
)

// tenderColumns are the unified_tenders columns fed per record, in insert
// order. Target fields outside this set travel in the metadata JSON.
var tenderColumns = []string{
	"source", "raw_id", "title", "description", "date_published",
	"closing_date", "tender_value", "tender_currency", "location",
	"issuing_authority", "tender_type", "project_size", "keywords",
	"contact_information", "metadata", "processed_at",
}

// fieldColumns is the subset of tenderColumns filled from UnifiedTender.Fields.
var fieldColumns = []string{
	"title", "description", "date_published", "closing_date",
	"tender_value", "tender_currency", "location", "issuing_authority",
	"tender_type", "project_size", "keywords", "contact_information",
}

// LoadFailure reports one record the sink rejected even after per-record
// fallback.
type LoadFailure struct {
	Source string
	RawID  string
	Err    error
}

// BatchLoader persists unified tenders in batches with per-record fallback:
// one bad row never blocks its batch-mates, and nothing is silently dropped.
type BatchLoader struct {
	db        *DB
	batchSize int
	logger    *slog.Logger
}

// NewBatchLoader creates a loader. batchSize is clamped to 1..1000.
func NewBatchLoader(db *DB, batchSize int) *BatchLoader {
	if batchSize < 1 {
		batchSize = 1
	}
	if batchSize > 1000 {
		batchSize = 1000
	}
	return &BatchLoader{
		db:        db,
		batchSize: batchSize,
		logger:    slog.Default().With("component", "batch_loader"),
	}
}

// Load upserts records in batches of the configured size. A failed bulk
// insert falls back to one-at-a-time inserts for that batch; records that
// fail even individually are returned as LoadFailures.
func (l *BatchLoader) Load(ctx context.Context, records []*normalization.UnifiedTender) (int, []LoadFailure) {
	inserted := 0
	var failures []LoadFailure

	for start := 0; start < len(records); start += l.batchSize {
		end := start + l.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		if err := l.insertBatch(ctx, batch); err == nil {
			inserted += len(batch)
			continue
		} else {
			l.logger.Warn("bulk insert failed, falling back to per-record inserts",
				"batch_size", len(batch), "error", err)
		}

		for _, record := range batch {
			if err := l.insertOne(ctx, record); err != nil {
				failures = append(failures, LoadFailure{
					Source: record.Source,
					RawID:  record.RawID,
					Err:    err,
				})
				continue
			}
			inserted++
		}
	}

	return inserted, failures
}

// insertBatch writes one batch inside a transaction as a multi-row upsert.
func (l *BatchLoader) insertBatch(ctx context.Context, batch []*normalization.UnifiedTender) error {
	tx, err := l.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(tenderColumns)), ",") + ")"
	placeholders := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*len(tenderColumns))
	for _, record := range batch {
		recordArgs, err := tenderArgs(record)
		if err != nil {
			return err
		}
		placeholders = append(placeholders, rowPlaceholder)
		args = append(args, recordArgs...)
	}

	query := upsertQuery(strings.Join(placeholders, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk insert failed: %w", err)
	}
	return tx.Commit()
}

// insertOne writes a single record with the same upsert semantics.
func (l *BatchLoader) insertOne(ctx context.Context, record *normalization.UnifiedTender) error {
	args, err := tenderArgs(record)
	if err != nil {
		return err
	}
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(tenderColumns)), ",") + ")"
	if _, err := l.db.conn.ExecContext(ctx, upsertQuery(rowPlaceholder), args...); err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

// upsertQuery builds the INSERT .. ON CONFLICT statement for the given
// VALUES clause. Reprocessing a record with the same (source, raw_id)
// replaces the previous normalization.
func upsertQuery(values string) string {
	updates := make([]string, 0, len(tenderColumns))
	for _, col := range tenderColumns {
		if col == "source" || col == "raw_id" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	return fmt.Sprintf(
		"INSERT INTO unified_tenders (%s) VALUES %s ON CONFLICT(source, raw_id) DO UPDATE SET %s",
		strings.Join(tenderColumns, ", "), values, strings.Join(updates, ", "))
}

// tenderArgs renders one record into column order. Original texts, the
// detected language and any target fields without a dedicated column are
// folded into the metadata JSON.
func tenderArgs(record *normalization.UnifiedTender) ([]any, error) {
	metadata, err := encodeMetadata(record)
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(tenderColumns))
	args = append(args, record.Source)
	if record.RawID == "" {
		args = append(args, sql.NullString{})
	} else {
		args = append(args, record.RawID)
	}
	for _, col := range fieldColumns {
		args = append(args, record.Fields[col])
	}
	args = append(args, metadata, record.ProcessedAt.UTC())
	return args, nil
}

// encodeMetadata serializes the metadata bag plus translation side data.
func encodeMetadata(record *normalization.UnifiedTender) (string, error) {
	payload := make(map[string]any, len(record.Metadata)+3)
	for k, v := range record.Metadata {
		payload[k] = v
	}
	if len(record.OriginalTexts) > 0 {
		payload["original_texts"] = record.OriginalTexts
	}
	if record.DetectedLanguage != "" {
		payload["detected_language"] = record.DetectedLanguage
	}

	column := make(map[string]struct{}, len(fieldColumns))
	for _, col := range fieldColumns {
		column[col] = struct{}{}
	}
	for name, value := range record.Fields {
		if _, ok := column[name]; !ok {
			payload["field_"+name] = value
		}
	}

	if len(payload) == 0 {
		return "", nil
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(encoded), nil
}
