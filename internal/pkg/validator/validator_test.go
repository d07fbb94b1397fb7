package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-01-15", "2024-02-29", "1999-12-31"}
	invalid := []string{"2026-13-01", "2026-01-32", "15-01-2026", "2026/01/15", "", "not-a-date"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"employee", "hr"}
	if !IsInSlice("hr", slice) {
		t.Error("IsInSlice(hr) = false, want true")
	}
	if IsInSlice("admin", slice) {
		t.Error("IsInSlice(admin) = true, want false")
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "latitude must be between -90 and 90"},
		{Field: "longitude", Message: "longitude must be between -180 and 180"},
	}
	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() has %d entries, want 2", len(m))
	}
	if m["latitude"] == "" || m["longitude"] == "" {
		t.Errorf("ToMap() missing fields: %v", m)
	}
}
