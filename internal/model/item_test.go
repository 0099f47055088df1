package model

import "testing"

func TestItemPatchHasTruthyField(t *testing.T) {
	tests := []struct {
		name  string
		patch ItemPatch
		want  bool
	}{
		{"empty", ItemPatch{}, false},
		{"empty name", ItemPatch{Name: Some("")}, false},
		{"zero quantity", ItemPatch{Quantity: Some(int64(0))}, false},
		{"false acquired", ItemPatch{Acquired: Some(false)}, false},
		{"zero acquisition", ItemPatch{AcquisitionID: Some(int64(0))}, false},
		{"all falsy", ItemPatch{Name: Some(""), Description: Some(""), Quantity: Some(int64(0)), Acquired: Some(false)}, false},
		{"name", ItemPatch{Name: Some("Lamp")}, true},
		{"description", ItemPatch{Description: Some("brass")}, true},
		{"quantity", ItemPatch{Quantity: Some(int64(5))}, true},
		{"negative quantity", ItemPatch{Quantity: Some(int64(-1))}, true},
		{"acquisition", ItemPatch{AcquisitionID: Some(int64(3))}, true},
		{"acquired", ItemPatch{Acquired: Some(true)}, true},
		{"null description", ItemPatch{Description: Null[string]()}, false},
		{"null plus truthy", ItemPatch{AcquisitionID: Null[int64](), Name: Some("Lamp")}, true},
		{"falsy plus truthy", ItemPatch{Acquired: Some(false), Quantity: Some(int64(2))}, true},
	}

	for _, tt := range tests {
		if got := tt.patch.HasTruthyField(); got != tt.want {
			t.Errorf("%s: HasTruthyField() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestField(t *testing.T) {
	var unset Field[string]
	if unset.Set || unset.IsNull() {
		t.Error("expected zero field to be unset")
	}
	if f := Null[int64](); !f.Set || !f.IsNull() {
		t.Errorf("expected explicit null, got %+v", f)
	}
	if f := Some(""); !f.Set || f.IsNull() || *f.Value != "" {
		t.Errorf("expected supplied empty string, got %+v", f)
	}
}
