package validation

import (
	"net/mail"
	"strings"
	"time"
)

// Violations maps an offending field to the reason it was rejected. A record
// is accepted only when the map stays empty; validation never applies
// partially.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// Email checks format only when a value is present; the field itself may be
// optional.
func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v[field] = "invalid_format"
	}
}

// DateYMD parses a required YYYY-MM-DD date, recording a violation on
// absence or bad format. The zero time is returned alongside any violation.
func DateYMD(field, value string, v Violations) time.Time {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		v[field] = "invalid_date"
		return time.Time{}
	}
	return t
}
