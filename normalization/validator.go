package normalization

import (
	"fmt"
	"strings"

	"tendertrail/schema"
)

// ValidationError aggregates every missing-required-field violation found
// in one record, so a caller sees the full damage in one pass.
type ValidationError struct {
	Missing []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// validate applies declared defaults and checks the presence contract of
// every target field. Defaulted fields with no value receive their default;
// optional fields stay absent — absence is meaningful, an empty string is
// not a substitute. The fields map is mutated in place.
func validate(fields map[string]string, target *schema.TargetSchema) error {
	var missing []string
	for _, f := range target.Fields() {
		_, present := fields[f.Name]
		switch f.Presence.Kind {
		case schema.Defaulted:
			if !present {
				fields[f.Name] = f.Presence.Default
			}
		case schema.Required:
			if !present || fields[f.Name] == "" {
				missing = append(missing, f.Name)
			}
		case schema.Optional:
			// Nothing to enforce.
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
