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
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "01-01-2023", "2023/01/01", "", "today"}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	valid := []string{"09:00", "00:00", "23:59"}
	invalid := []string{"24:00", "9am", "09:60", "", "09:00:00"}
	for _, s := range valid {
		if _, ok := IsValidTimeOfDay(s); !ok {
			t.Errorf("IsValidTimeOfDay(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidTimeOfDay(s); ok {
			t.Errorf("IsValidTimeOfDay(%q) = true, want false", s)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-42d3-a456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "start_date is required"},
		{Field: "reason", Message: "reason is too short"},
	}
	want := "start_date: start_date is required; reason: reason is too short"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}
	m := errs.ToMap()
	if m["reason"] != "reason is too short" {
		t.Errorf("ToMap()[reason] = %q", m["reason"])
	}
}
