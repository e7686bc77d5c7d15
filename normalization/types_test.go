package normalization

import "testing"

func TestRawRecordRawID(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want string
	}{
		{"id field", RawRecord{"id": "t-1"}, "t-1"},
		{"tender_id field", RawRecord{"tender_id": "t-2"}, "t-2"},
		{"reference field", RawRecord{"reference": "REF/2025/17"}, "REF/2025/17"},
		{"id wins over reference", RawRecord{"id": "t-3", "reference": "other"}, "t-3"},
		{"numeric id", RawRecord{"id": 42}, "42"},
		{"nil id falls through", RawRecord{"id": nil, "tender_id": "t-4"}, "t-4"},
		{"no identifier", RawRecord{"title": "anonymous"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.raw.RawID(); got != tt.want {
				t.Errorf("RawID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizationErrorMessage(t *testing.T) {
	err := &NormalizationError{RawID: "t-1", Source: "adb", Stage: StageValidate, Message: "missing required fields: title"}
	want := "adb/t-1 failed at validate: missing required fields: title"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	anon := &NormalizationError{Source: "wb", Stage: StageDirectMap, Message: "boom"}
	if got := anon.Error(); got != "wb/<no id> failed at direct_map: boom" {
		t.Errorf("Error() = %q", got)
	}
}
