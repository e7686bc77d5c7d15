// Package importer loads raw tender records from operator-supplied files
// into the per-source raw tables the pipeline reads from.
package importer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"tendertrail/database"
	"tendertrail/normalization"
)

// XLSXImporter reads raw records from a spreadsheet: first sheet, header
// row holds the raw field names, every following row is one record.
type XLSXImporter struct {
	db     *database.DB
	logger *slog.Logger
}

// NewXLSXImporter creates an importer writing to the given database.
func NewXLSXImporter(db *database.DB) *XLSXImporter {
	return &XLSXImporter{
		db:     db,
		logger: slog.Default().With("component", "xlsx_importer"),
	}
}

// Import reads the file and stores its rows as raw records for source.
// Returns the number of stored records.
func (i *XLSXImporter) Import(path, source string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	header := make([]string, len(rows[0]))
	for idx, cell := range rows[0] {
		header[idx] = strings.TrimSpace(cell)
	}

	records := make([]normalization.RawRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		record := make(normalization.RawRecord, len(header))
		empty := true
		for idx, cell := range row {
			if idx >= len(header) || header[idx] == "" {
				continue
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			record[header[idx]] = value
			empty = false
		}
		if empty {
			skipped++
			continue
		}
		records = append(records, record)
	}

	inserted, err := i.db.InsertRawRecords(source, records)
	if err != nil {
		return inserted, err
	}

	i.logger.Info("imported raw records from workbook",
		"path", path, "source", source, "inserted", inserted, "skipped_empty", skipped)
	return inserted, nil
}
