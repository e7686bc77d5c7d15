package extractors

import (
	"testing"

	"tendertrail/schema"
)

func TestClassifyTenderType(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"works", "Construction of a rural road and two bridges", TypeWorks},
		{"goods", "Supply and delivery of laboratory equipment", TypeGoods},
		{"services", "Operation and maintenance of the water treatment plant", TypeServices},
		{"consulting", "Consultancy for a feasibility study", TypeConsulting},
		{"tie resolves by priority", "Consultancy service", TypeConsulting},
		{"works beat goods on count", "Construction of a building, road upgrade and bridge rehabilitation, plus supply of materials", TypeWorks},
		{"no hits", "Lorem ipsum dolor sit amet", ""},
		{"case insensitive", "SUPPLY OF VEHICLES", TypeGoods},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.ClassifyTenderType(tt.description); got != tt.want {
				t.Errorf("ClassifyTenderType(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestExtractProjectSize(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	tests := []struct {
		value string
		want  string
	}{
		{"250000 USD", SizeSmall},
		{"499999 USD", SizeSmall},
		{"500000 USD", SizeMedium},
		{"1999999 EUR", SizeMedium},
		{"2000000 EUR", SizeLarge},
		{"9999999 GBP", SizeLarge},
		{"10000000 GBP", SizeVeryLarge},
		{"not a number", ""},
	}
	for _, tt := range tests {
		if got := engine.extractProjectSize(tt.value); got != tt.want {
			t.Errorf("extractProjectSize(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestApplyDerivesFields(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	target := derivedTarget(t)

	fields := map[string]string{
		"tender_value": "1000000 USD",
		"description":  "Construction of a rural road",
	}
	engine.Apply(target, fields)

	if got := fields["tender_currency"]; got != "USD" {
		t.Errorf("tender_currency = %q, want USD", got)
	}
	if got := fields["tender_type"]; got != TypeWorks {
		t.Errorf("tender_type = %q, want %q", got, TypeWorks)
	}
	if got := fields["project_size"]; got != SizeMedium {
		t.Errorf("project_size = %q, want %q", got, SizeMedium)
	}
}

func TestApplyNeverOverwritesMappedValues(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	target := derivedTarget(t)

	fields := map[string]string{
		"tender_value":    "1000000 USD",
		"tender_currency": "EUR",
		"description":     "Construction of a rural road",
		"tender_type":     TypeGoods,
	}
	engine.Apply(target, fields)

	if got := fields["tender_currency"]; got != "EUR" {
		t.Errorf("directly mapped tender_currency overwritten: got %q", got)
	}
	if got := fields["tender_type"]; got != TypeGoods {
		t.Errorf("directly mapped tender_type overwritten: got %q", got)
	}
}

func TestApplyLeavesFieldAbsentWithoutInput(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	target := derivedTarget(t)

	fields := map[string]string{}
	engine.Apply(target, fields)

	for _, name := range []string{"tender_currency", "tender_type", "project_size"} {
		if _, ok := fields[name]; ok {
			t.Errorf("field %q derived with no input", name)
		}
	}
}

func derivedTarget(t *testing.T) *schema.TargetSchema {
	t.Helper()
	target, err := schema.NewTargetSchema([]schema.TargetField{
		{Name: "description", Type: schema.FieldString},
		{Name: "tender_value", Type: schema.FieldMonetary},
		{Name: "tender_currency", Type: schema.FieldString,
			ExtractFrom: &schema.ExtractRule{Field: "tender_value"}},
		{Name: "tender_type", Type: schema.FieldString,
			ExtractFrom: &schema.ExtractRule{Field: "description"}},
		{Name: "project_size", Type: schema.FieldString,
			ExtractFrom: &schema.ExtractRule{Field: "tender_value"}},
	})
	if err != nil {
		t.Fatalf("NewTargetSchema: %v", err)
	}
	return target
}
