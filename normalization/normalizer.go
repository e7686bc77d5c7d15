package normalization

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"tendertrail/coerce"
	"tendertrail/extractors"
	"tendertrail/schema"
	"tendertrail/translation"
)

// Normalizer drives one record through the stage machine:
// Received -> DirectMapped -> Extracted -> Translated -> Validated.
// A failure at any stage short-circuits to exactly one NormalizationError.
type Normalizer struct {
	target     *schema.TargetSchema
	engine     *extractors.Engine
	translator *translation.Translator
	logger     *slog.Logger
}

// NewNormalizer wires the stages together. The target schema, engine and
// translator are shared read-only across all Normalize calls.
func NewNormalizer(target *schema.TargetSchema, engine *extractors.Engine, translator *translation.Translator) *Normalizer {
	return &Normalizer{
		target:     target,
		engine:     engine,
		translator: translator,
		logger:     slog.Default().With("component", "normalizer"),
	}
}

// Normalize maps one raw record into a unified tender. Exactly one of the
// two results is non-nil. No panic escapes this boundary: a panic in any
// stage becomes a NormalizationError for that record.
func (n *Normalizer) Normalize(ctx context.Context, raw RawRecord, src *schema.SourceSchema) (tender *UnifiedTender, failure *NormalizationError) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("panic while normalizing record",
				"source", src.Name, "raw_id", raw.RawID(), "panic", r)
			tender = nil
			failure = newError(raw, src.Name, StageDirectMap, fmt.Sprintf("panic: %v", r))
		}
	}()

	fields, metadata, mapErr := n.directMap(raw, src)
	if mapErr != nil {
		return nil, newError(raw, src.Name, StageDirectMap, mapErr.Error())
	}

	n.engine.Apply(n.target, fields)

	originals, detected := n.translate(ctx, fields)

	if err := validate(fields, n.target); err != nil {
		return nil, newError(raw, src.Name, StageValidate, err.Error())
	}

	return &UnifiedTender{
		Source:           src.Name,
		RawID:            raw.RawID(),
		ProcessedAt:      time.Now().UTC(),
		Fields:           fields,
		Metadata:         metadata,
		OriginalTexts:    originals,
		DetectedLanguage: detected,
	}, nil
}

// directMap applies the source schema's field mappings with type coercion
// and collects unmapped raw fields as metadata.
func (n *Normalizer) directMap(raw RawRecord, src *schema.SourceSchema) (map[string]string, map[string]any, error) {
	fields := make(map[string]string, n.target.Len())
	metadata := make(map[string]any)

	for rawName, value := range raw {
		mapping, mapped := src.TargetFor(rawName)
		if !mapped {
			metadata[rawName] = value
			continue
		}
		if value == nil {
			continue
		}

		text := stringify(value)
		if text == "" {
			continue
		}

		coerced, err := n.coerceValue(text, mapping, fields)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", rawName, err)
		}
		if coerced != "" {
			fields[mapping.MapsTo] = coerced
		}
	}

	return fields, metadata, nil
}

// coerceValue normalizes one raw value by its declared type. The rendered
// form follows the target schema formats: ISO dates, canonical
// "<amount> <CUR>" monetary strings, cleaned and length-capped text.
func (n *Normalizer) coerceValue(text string, mapping schema.FieldMapping, fields map[string]string) (string, error) {
	switch mapping.Type {
	case schema.FieldDate:
		parsed, err := coerce.ParseDate(text)
		if err != nil {
			return "", err
		}
		return coerce.ISODate(parsed), nil

	case schema.FieldMonetary:
		money, err := coerce.ParseMonetary(text)
		if err != nil {
			return "", err
		}
		return money.String(), nil

	case schema.FieldNumber:
		cleaned := coerce.CleanText(text)
		if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
			return "", fmt.Errorf("not a number: %q", text)
		}
		return cleaned, nil

	default:
		cleaned := coerce.CleanText(text)
		if max := n.maxLenFor(mapping.MapsTo); max > 0 {
			cleaned = coerce.Truncate(cleaned, max)
		}
		return cleaned, nil
	}
}

// translate runs the translator over every requires_translation field.
// Translation failures never fail the record.
func (n *Normalizer) translate(ctx context.Context, fields map[string]string) (map[string]string, string) {
	var originals map[string]string
	detected := ""

	for _, f := range n.target.Fields() {
		if !f.RequiresTranslation {
			continue
		}
		value := fields[f.Name]
		if value == "" {
			continue
		}

		result := n.translator.MaybeTranslate(ctx, value, f)
		fields[f.Name] = result.Value
		if result.Original != "" {
			if originals == nil {
				originals = make(map[string]string)
			}
			originals[f.Name] = result.Original
			detected = result.DetectedLanguage
		}
	}
	return originals, detected
}

var maxLenRe = regexp.MustCompile(`max (\d+) characters`)

// maxLenFor reads a length cap out of the target field's declared format,
// e.g. "Plain text, max 2000 characters".
func (n *Normalizer) maxLenFor(fieldName string) int {
	f, ok := n.target.Field(fieldName)
	if !ok {
		return 0
	}
	m := maxLenRe.FindStringSubmatch(f.Format)
	if m == nil {
		return 0
	}
	max, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return max
}

// stringify renders a raw value for coercion. Nested values keep their
// JSON form so nothing is lost.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
