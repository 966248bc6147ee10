package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Required("phone", "555-0100", v)
	if v["name"] != "required" {
		t.Fatalf("expected name violation, got %v", v)
	}
	if _, ok := v["phone"]; ok {
		t.Fatalf("unexpected phone violation: %v", v)
	}
}

func TestNonNegativeFloat(t *testing.T) {
	v := Violations{}
	NonNegativeFloat("price", -0.01, v)
	if v["price"] != "must_be_non_negative" {
		t.Fatalf("expected price violation, got %v", v)
	}
	v = Violations{}
	NonNegativeFloat("price", 0, v)
	if !v.Empty() {
		t.Fatalf("zero price should be accepted: %v", v)
	}
}

func TestEmailOptionalFormat(t *testing.T) {
	v := Violations{}
	Email("email", "", v)
	if !v.Empty() {
		t.Fatalf("empty email should pass: %v", v)
	}
	Email("email", "not-an-address", v)
	if v["email"] != "invalid_format" {
		t.Fatalf("expected format violation, got %v", v)
	}
}

func TestDateYMD(t *testing.T) {
	v := Violations{}
	d := DateYMD("date", "2024-01-01", v)
	if !v.Empty() {
		t.Fatalf("valid date rejected: %v", v)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 1 {
		t.Fatalf("unexpected parse result: %v", d)
	}
	DateYMD("date2", "01/02/2024", v)
	if v["date2"] != "invalid_date" {
		t.Fatalf("expected invalid_date, got %v", v)
	}
	DateYMD("date3", "", v)
	if v["date3"] != "required" {
		t.Fatalf("expected required, got %v", v)
	}
}
