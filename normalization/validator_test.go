package normalization

import (
	"errors"
	"testing"

	"tendertrail/schema"
)

func validationTarget(t *testing.T) *schema.TargetSchema {
	t.Helper()
	target, err := schema.NewTargetSchema([]schema.TargetField{
		{Name: "title", Presence: schema.Presence{Kind: schema.Required}},
		{Name: "closing_date", Presence: schema.Presence{Kind: schema.Required}},
		{Name: "description", Presence: schema.Presence{Kind: schema.Optional}},
		{Name: "contact_information", Presence: schema.Presence{Kind: schema.Defaulted, Default: "n/a"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return target
}

func TestValidateAppliesDefaults(t *testing.T) {
	target := validationTarget(t)
	fields := map[string]string{"title": "T", "closing_date": "2025-06-30"}

	if err := validate(fields, target); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got, present := fields["contact_information"]; !present || got != "n/a" {
		t.Errorf("contact_information = %q, %v; want default applied", got, present)
	}
	if _, present := fields["description"]; present {
		t.Error("optional field was populated")
	}
}

func TestValidateAggregatesAllMissing(t *testing.T) {
	target := validationTarget(t)
	err := validate(map[string]string{}, target)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type %T", err)
	}
	if len(verr.Missing) != 2 {
		t.Fatalf("Missing = %v, want both required fields", verr.Missing)
	}
	if verr.Missing[0] != "title" || verr.Missing[1] != "closing_date" {
		t.Errorf("Missing = %v, want declaration order", verr.Missing)
	}
}

func TestValidateEmptyRequiredValue(t *testing.T) {
	target := validationTarget(t)
	err := validate(map[string]string{"title": "", "closing_date": "2025-06-30"}, target)
	if err == nil {
		t.Fatal("empty required value must fail validation")
	}
}

func TestValidateExistingValueNotDefaulted(t *testing.T) {
	target := validationTarget(t)
	fields := map[string]string{
		"title":               "T",
		"closing_date":        "2025-06-30",
		"contact_information": "bids@example.org",
	}
	if err := validate(fields, target); err != nil {
		t.Fatal(err)
	}
	if fields["contact_information"] != "bids@example.org" {
		t.Errorf("existing value overwritten with default: %q", fields["contact_information"])
	}
}
