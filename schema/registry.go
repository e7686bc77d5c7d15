package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrUnknownSource is returned when no schema is configured for a source.
var ErrUnknownSource = errors.New("unknown source")

// CatalogStore is the read path to the schema catalog. The service database
// implements it; the registry never writes through it.
type CatalogStore interface {
	// SourceSchemaDoc returns the stored JSON document for one source, or
	// (nil, nil) when the catalog has no row for it.
	SourceSchemaDoc(name string) ([]byte, error)
	// ListSourceNames returns every source name present in the catalog.
	ListSourceNames() ([]string, error)
	// TargetSchemaDoc returns the stored target schema document, or
	// (nil, nil) when none was seeded.
	TargetSchemaDoc() ([]byte, error)
}

// Registry resolves source schemas by name and exposes the target schema
// singleton. All lookups after Load are in-memory and read-only.
type Registry struct {
	sources map[string]*SourceSchema
	target  *TargetSchema
	logger  *slog.Logger
}

// LoadRegistry builds a registry from the catalog store. Stored documents
// are validated against the embedded JSON Schemas before use; sources with
// no stored document fall back to the compiled-in defaults. A nil store
// loads defaults only.
func LoadRegistry(store CatalogStore) (*Registry, error) {
	logger := slog.Default().With("component", "schema_registry")

	sourceValidator, targetValidator, err := compileValidators()
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		sources: make(map[string]*SourceSchema),
		logger:  logger,
	}

	// Defaults first, stored documents override them.
	for name, doc := range defaultSourceSchemaDocs {
		src, err := ParseSourceSchema([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("invalid default schema for %q: %w", name, err)
		}
		reg.sources[name] = src
	}

	if store != nil {
		names, err := store.ListSourceNames()
		if err != nil {
			return nil, fmt.Errorf("failed to list source schemas: %w", err)
		}
		for _, name := range names {
			doc, err := store.SourceSchemaDoc(name)
			if err != nil {
				return nil, fmt.Errorf("failed to read schema for %q: %w", name, err)
			}
			if doc == nil {
				continue
			}
			if err := validateDoc(sourceValidator, doc); err != nil {
				return nil, fmt.Errorf("stored schema for %q is invalid: %w", name, err)
			}
			src, err := ParseSourceSchema(doc)
			if err != nil {
				return nil, fmt.Errorf("stored schema for %q: %w", name, err)
			}
			reg.sources[src.Name] = src
		}
	}

	var targetDoc []byte
	if store != nil {
		targetDoc, err = store.TargetSchemaDoc()
		if err != nil {
			return nil, fmt.Errorf("failed to read target schema: %w", err)
		}
	}
	if targetDoc == nil {
		targetDoc = []byte(defaultTargetSchemaDoc)
		logger.Info("target schema not found in catalog, using built-in default")
	} else if err := validateDoc(targetValidator, targetDoc); err != nil {
		return nil, fmt.Errorf("stored target schema is invalid: %w", err)
	}

	reg.target, err = ParseTargetSchema(targetDoc)
	if err != nil {
		return nil, err
	}

	if err := reg.checkExtractRules(); err != nil {
		return nil, err
	}

	logger.Info("schema registry loaded",
		"sources", len(reg.sources),
		"target_fields", reg.target.Len())
	return reg, nil
}

// SourceSchema returns the schema for a source or ErrUnknownSource.
func (r *Registry) SourceSchema(name string) (*SourceSchema, error) {
	src, ok := r.sources[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return src, nil
}

// TargetSchema returns the shared target schema. Never nil after Load.
func (r *Registry) TargetSchema() *TargetSchema {
	return r.target
}

// SourceNames returns all configured source names, sorted.
func (r *Registry) SourceNames() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkExtractRules verifies every extract_from directive points at an
// existing target field and that the dependency edges stay acyclic.
func (r *Registry) checkExtractRules() error {
	for _, f := range r.target.Fields() {
		if f.ExtractFrom == nil {
			continue
		}
		dep, ok := r.target.Field(f.ExtractFrom.Field)
		if !ok {
			return fmt.Errorf("target field %q extracts from unknown field %q", f.Name, f.ExtractFrom.Field)
		}
		// One level of derivation is the contract; a derived field must not
		// itself be derived, or extraction order would matter.
		if dep.ExtractFrom != nil {
			return fmt.Errorf("target field %q extracts from derived field %q", f.Name, dep.Name)
		}
	}
	return nil
}

func compileValidators() (source, target *jsonschema.Schema, err error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("source_schema.json", strings.NewReader(sourceSchemaJSONSchema)); err != nil {
		return nil, nil, fmt.Errorf("failed to add source schema resource: %w", err)
	}
	if err := compiler.AddResource("target_schema.json", strings.NewReader(targetSchemaJSONSchema)); err != nil {
		return nil, nil, fmt.Errorf("failed to add target schema resource: %w", err)
	}
	source, err = compiler.Compile("source_schema.json")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile source schema validator: %w", err)
	}
	target, err = compiler.Compile("target_schema.json")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile target schema validator: %w", err)
	}
	return source, target, nil
}

func validateDoc(s *jsonschema.Schema, doc []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(doc)))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	return s.Validate(value)
}

// JSON Schemas the stored catalog documents are checked against. Kept strict
// on structure, permissive on unknown keys so the catalog can grow.
const sourceSchemaJSONSchema = `{
	"type": "object",
	"required": ["source_name", "field_mappings"],
	"properties": {
		"source_name": {"type": "string", "minLength": 1},
		"language": {"type": "string"},
		"field_mappings": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {
				"type": "object",
				"required": ["type", "maps_to"],
				"properties": {
					"type": {"enum": ["string", "date", "monetary", "number"]},
					"maps_to": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`

const targetSchemaJSONSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["name", "type"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"type": {"enum": ["string", "date", "monetary", "number"]},
			"description": {"type": "string"},
			"format": {"type": "string"},
			"required": {"type": "boolean"},
			"requires_translation": {"type": "boolean"},
			"default": {"type": "string"},
			"extract_from": {
				"type": "object",
				"required": ["field"],
				"properties": {"field": {"type": "string", "minLength": 1}}
			}
		}
	}
}`
