// Package schema holds the declarative per-source field mappings and the
// unified target field catalog. Schemas are loaded once at start-up and are
// read-only for the rest of the process lifetime.
package schema

import (
	"encoding/json"
	"fmt"
)

// FieldType describes how a raw source value must be coerced during mapping.
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldDate     FieldType = "date"
	FieldMonetary FieldType = "monetary"
	FieldNumber   FieldType = "number"
)

// FieldMapping maps one raw source field onto a target field.
type FieldMapping struct {
	Type   FieldType `json:"type"`
	MapsTo string    `json:"maps_to"`
}

// SourceSchema describes how one data provider's raw fields map onto the
// unified target schema. Raw fields absent from FieldMappings are preserved
// as record metadata.
type SourceSchema struct {
	Name          string                  `json:"source_name"`
	Language      string                  `json:"language"`
	FieldMappings map[string]FieldMapping `json:"field_mappings"`
}

// TargetFor returns the target field a raw field maps to, if any.
func (s *SourceSchema) TargetFor(rawField string) (FieldMapping, bool) {
	m, ok := s.FieldMappings[rawField]
	return m, ok
}

// PresenceKind distinguishes required, optional and defaulted target fields.
type PresenceKind int

const (
	// Optional fields may be absent; their absence is meaningful and they
	// must not be defaulted to an empty value.
	Optional PresenceKind = iota
	// Required fields without a value fail validation.
	Required
	// Defaulted fields receive Presence.Default when no value was produced.
	Defaulted
)

// Presence is the tri-state presence contract of a target field. Modeled as
// a tagged variant so "intentionally absent" and "defaulted" never blur.
type Presence struct {
	Kind    PresenceKind
	Default string
}

// ExtractRule names the already-normalized target field a value is derived
// from when no direct mapping produced one.
type ExtractRule struct {
	Field string `json:"field"`
}

// TargetField is one entry of the unified tender schema.
type TargetField struct {
	Name                string
	Type                FieldType
	Description         string
	Format              string
	RequiresTranslation bool
	ExtractFrom         *ExtractRule
	Presence            Presence
}

// TargetSchema is the ordered unified field catalog shared across all
// normalization runs.
type TargetSchema struct {
	fields []TargetField
	index  map[string]int
}

// NewTargetSchema builds a schema from an ordered field list. Field names
// must be unique.
func NewTargetSchema(fields []TargetField) (*TargetSchema, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("target field %d has no name", i)
		}
		if _, dup := index[f.Name]; dup {
			return nil, fmt.Errorf("duplicate target field %q", f.Name)
		}
		index[f.Name] = i
	}
	return &TargetSchema{fields: fields, index: index}, nil
}

// Fields returns the fields in declaration order. Callers must not mutate
// the returned slice.
func (t *TargetSchema) Fields() []TargetField {
	return t.fields
}

// Field looks a target field up by name.
func (t *TargetSchema) Field(name string) (TargetField, bool) {
	i, ok := t.index[name]
	if !ok {
		return TargetField{}, false
	}
	return t.fields[i], true
}

// Len returns the number of target fields.
func (t *TargetSchema) Len() int { return len(t.fields) }

// targetFieldJSON is the wire form of a target field as stored in the
// catalog table. The presence tri-state is flattened into required/default.
type targetFieldJSON struct {
	Name                string       `json:"name"`
	Type                FieldType    `json:"type"`
	Description         string       `json:"description,omitempty"`
	Format              string       `json:"format,omitempty"`
	Required            bool         `json:"required,omitempty"`
	RequiresTranslation bool         `json:"requires_translation,omitempty"`
	ExtractFrom         *ExtractRule `json:"extract_from,omitempty"`
	Default             *string      `json:"default,omitempty"`
}

// ParseTargetSchema decodes the JSON catalog document into a TargetSchema.
func ParseTargetSchema(doc []byte) (*TargetSchema, error) {
	var raw []targetFieldJSON
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode target schema: %w", err)
	}

	fields := make([]TargetField, 0, len(raw))
	for _, rf := range raw {
		f := TargetField{
			Name:                rf.Name,
			Type:                rf.Type,
			Description:         rf.Description,
			Format:              rf.Format,
			RequiresTranslation: rf.RequiresTranslation,
			ExtractFrom:         rf.ExtractFrom,
		}
		switch {
		case rf.Default != nil:
			f.Presence = Presence{Kind: Defaulted, Default: *rf.Default}
		case rf.Required:
			f.Presence = Presence{Kind: Required}
		default:
			f.Presence = Presence{Kind: Optional}
		}
		fields = append(fields, f)
	}
	return NewTargetSchema(fields)
}

// ParseSourceSchema decodes a JSON source schema document.
func ParseSourceSchema(doc []byte) (*SourceSchema, error) {
	var s SourceSchema
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("failed to decode source schema: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("source schema has no source_name")
	}
	if len(s.FieldMappings) == 0 {
		return nil, fmt.Errorf("source schema %q has no field mappings", s.Name)
	}
	return &s, nil
}
