package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// ValidationError is one failed check on one field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects every failed check from one Apply call.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any check failed for the given field.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Rule is a single deferred check.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply runs all rules and returns nil or the full list of failures.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if !r.Check() {
			errs = append(errs, r.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Required fails on empty or whitespace-only values.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "is required"},
	}
}

// MinLen fails when the value is shorter than n runes.
func MinLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return len([]rune(value)) >= n },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", n)},
	}
}

// ValidEmail fails on anything net/mail cannot parse as a bare address.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// phoneRe accepts international and local forms with common separators.
var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,18}[0-9]$`)

// Phone fails on values that do not look like a phone number.
func Phone(field, value string) Rule {
	return Rule{
		Check: func() bool { return phoneRe.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must be a valid phone number"},
	}
}
