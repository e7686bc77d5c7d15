// Package normalization turns one raw source record into one unified
// tender record, or into exactly one structured normalization error —
// never both, never neither.
package normalization

import (
	"fmt"
	"time"
)

// RawRecord is an untyped source record as received from a provider feed.
type RawRecord map[string]any

// rawIDFields are checked in order when looking for the source's original
// identifier.
var rawIDFields = []string{"id", "tender_id", "raw_id", "reference"}

// RawID returns the source's original identifier, or "" when the record
// carries none.
func (r RawRecord) RawID() string {
	for _, key := range rawIDFields {
		if v, ok := r[key]; ok && v != nil {
			if s := fmt.Sprintf("%v", v); s != "" {
				return s
			}
		}
	}
	return ""
}

// Stage names the pipeline step a record failed in.
type Stage string

const (
	StageDirectMap Stage = "direct_map"
	StageExtract   Stage = "extract"
	StageTranslate Stage = "translate"
	StageValidate  Stage = "validate"
	StageLoad      Stage = "load"
)

// UnifiedTender is the normalized output record. Created exactly once per
// successfully normalized RawRecord and never mutated afterwards;
// ownership transfers to the batch loader for persistence.
type UnifiedTender struct {
	Source      string
	RawID       string
	ProcessedAt time.Time

	// Fields holds one value per target schema field; absent optional
	// fields have no key.
	Fields map[string]string

	// Metadata preserves raw fields the source schema does not map.
	Metadata map[string]any

	// OriginalTexts keeps pre-translation values per translated field.
	OriginalTexts    map[string]string
	DetectedLanguage string
}

// Field returns a normalized field value ("" when absent).
func (t *UnifiedTender) Field(name string) string {
	return t.Fields[name]
}

// NormalizationError describes why one raw record could not be normalized.
// It references the failed record only by identifier, never by content.
type NormalizationError struct {
	RawID     string
	Source    string
	Stage     Stage
	Message   string
	CreatedAt time.Time
}

// Error implements the error interface.
func (e *NormalizationError) Error() string {
	id := e.RawID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("%s/%s failed at %s: %s", e.Source, id, e.Stage, e.Message)
}

// newError builds a stage failure for a record.
func newError(raw RawRecord, source string, stage Stage, message string) *NormalizationError {
	return &NormalizationError{
		RawID:     raw.RawID(),
		Source:    source,
		Stage:     stage,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
