package importer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"tendertrail/database"
	"tendertrail/normalization"
)

// JSONImporter reads raw records from a JSON file holding an array of
// objects, the shape scraper exports use.
type JSONImporter struct {
	db     *database.DB
	logger *slog.Logger
}

// NewJSONImporter creates an importer writing to the given database.
func NewJSONImporter(db *database.DB) *JSONImporter {
	return &JSONImporter{
		db:     db,
		logger: slog.Default().With("component", "json_importer"),
	}
}

// Import reads the file and stores its objects as raw records for source.
func (i *JSONImporter) Import(path, source string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	var records []normalization.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("file is not a JSON array of records: %w", err)
	}

	inserted, err := i.db.InsertRawRecords(source, records)
	if err != nil {
		return inserted, err
	}

	i.logger.Info("imported raw records from JSON",
		"path", path, "source", source, "inserted", inserted)
	return inserted, nil
}
